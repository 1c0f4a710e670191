package core

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/internal"
	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

// runPhasesCore classifies every member of every onset scenario without
// compositing, for a quick look at the ensemble's ENSO spread.
func runPhasesCore(ctx context.Context, cfg *contract.Config, loader contract.EnsembleLoader, mgr contract.CacheManager) (*schema.PhaseResult, error) {
	if !headersSuppressed(ctx) {
		internal.LogAnalysisHeader(cfg, "phases")
	}

	result := &schema.PhaseResult{
		Threshold: cfg.Threshold,
		PreMonths: cfg.PreMonths,
		Scenarios: cfg.Onsets,
		Summaries: make(map[string]*schema.PhaseSummary, len(cfg.Onsets)),
	}
	for _, onset := range cfg.Onsets {
		raw, err := cachedLoadEnsemble(ctx, cfg, loader, mgr, onset)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", onset, err)
		}
		members, err := ClassifyMemberPhases(raw, cfg.EruptionIndex, cfg.PreMonths, cfg.Threshold)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", onset, err)
		}
		result.Summaries[onset] = &schema.PhaseSummary{
			Scenario: onset,
			Members:  members,
			Counts:   CountPhases(members),
		}
	}
	return result, nil
}

// ClassifyMemberPhases assigns an ENSO phase to every ensemble member from
// the raw Nino 3.4 index over the pre-eruption window [idx-months, idx).
// The window mean is compared directly against threshold*std of the same
// window, matching the convention used across published ensembles. A
// member whose window contains NaN classifies as Neutral.
func ClassifyMemberPhases(raw *grid.Field, idx, months int, threshold float64) ([]schema.MemberPhase, error) {
	if !raw.HasMembers() {
		return nil, fmt.Errorf("phase classification needs an ensemble with a member dimension")
	}

	index, err := Nino34(raw)
	if err != nil {
		return nil, err
	}
	window, err := index.TimeSlice(idx-months, idx)
	if err != nil {
		return nil, fmt.Errorf("pre-eruption window: %w", err)
	}

	result := make([]schema.MemberPhase, 0, len(raw.Members))
	for m, id := range raw.Members {
		values := window.MemberValues(m)
		mean, err := stats.Mean(values)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", id, err)
		}
		std, err := stats.StandardDeviationPopulation(values)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", id, err)
		}

		phase := schema.NeutralPhase
		switch {
		case mean > threshold*std:
			phase = schema.ElNinoPhase
		case mean < -threshold*std:
			phase = schema.LaNinaPhase
		}
		result = append(result, schema.MemberPhase{Member: id, Mean: mean, Std: std, Phase: phase})
	}
	return result, nil
}

// PhasesOf extracts just the phase labels in member order.
func PhasesOf(members []schema.MemberPhase) []schema.Phase {
	phases := make([]schema.Phase, len(members))
	for i, mp := range members {
		phases[i] = mp.Phase
	}
	return phases
}

// CountPhases tallies members per phase. Absent phases have no entry.
func CountPhases(members []schema.MemberPhase) map[schema.Phase]int {
	counts := make(map[schema.Phase]int, len(schema.AllPhases))
	for _, mp := range members {
		counts[mp.Phase]++
	}
	return counts
}
