package core

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/internal"
	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

// runCompositeCore runs the full composite pipeline for every onset
// scenario: load, anomaly, phase classification on the raw field,
// composite by phase. Scenarios run one at a time; memory for a single
// ensemble already dominates, and results must not depend on scheduling.
func runCompositeCore(ctx context.Context, cfg *contract.Config, loader contract.EnsembleLoader, mgr contract.CacheManager) (*schema.AnalysisResult, error) {
	if !headersSuppressed(ctx) {
		internal.LogAnalysisHeader(cfg, "composite")
	}

	// --- 0. Begin Run Tracking (if configured) ---
	var runID int64
	runStore := mgr.GetRunStore()
	if runStore != nil {
		startTime := time.Now()
		configParams := map[string]any{
			"variable":       cfg.Variable,
			"members":        len(cfg.Members),
			"onsets":         strings.Join(cfg.Onsets, ","),
			"pre_months":     cfg.PreMonths,
			"post_months":    cfg.PostMonths,
			"threshold":      cfg.Threshold,
			"eruption_index": cfg.EruptionIndex,
			"base_path":      cfg.BasePath,
		}
		var err error
		runID, err = runStore.BeginRun(startTime, configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		}
	}

	// --- 1. Control Climatology (optional) ---
	clim, err := controlClimatology(ctx, cfg, loader)
	if err != nil {
		return nil, err
	}

	// --- 2. Per-Scenario Pipeline ---
	result := &schema.AnalysisResult{
		Variable:  cfg.Variable,
		Scenarios: cfg.Onsets,
		Sets:      make(map[string]*schema.CompositeSet, len(cfg.Onsets)),
	}
	for _, onset := range cfg.Onsets {
		set, err := analyzeScenario(ctx, cfg, loader, mgr, clim, onset)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", onset, err)
		}
		result.Sets[onset] = set

		if runStore != nil && runID > 0 {
			recordComposites(runStore, runID, set)
		}
	}

	// --- 3. End Run Tracking ---
	if runStore != nil && runID > 0 {
		endTime := time.Now()
		if err := runStore.EndRun(runID, endTime, len(cfg.Onsets)); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return result, nil
}

// analyzeScenario runs load, anomaly, classification and compositing for one
// onset scenario. Classification always sees the raw field, never anomalies.
func analyzeScenario(ctx context.Context, cfg *contract.Config, loader contract.EnsembleLoader, mgr contract.CacheManager, clim *grid.Climatology, scenario string) (*schema.CompositeSet, error) {
	raw, err := cachedLoadEnsemble(ctx, cfg, loader, mgr, scenario)
	if err != nil {
		return nil, err
	}
	anom, err := anomalyField(cfg, raw, clim)
	if err != nil {
		return nil, err
	}
	members, err := ClassifyMemberPhases(raw, cfg.EruptionIndex, cfg.PreMonths, cfg.Threshold)
	if err != nil {
		return nil, err
	}
	return CompositeByPhase(anom, PhasesOf(members), cfg.EruptionIndex, cfg.PostMonths, scenario)
}

// controlClimatology loads the optional control run and averages it into a
// monthly climatology. Without a control path it returns nil and the anomaly
// method falls back to per-member baselines.
func controlClimatology(ctx context.Context, cfg *contract.Config, loader contract.EnsembleLoader) (*grid.Climatology, error) {
	if cfg.ControlPath == "" {
		return nil, nil
	}
	control, err := loader.LoadControl(ctx, cfg.ControlPath, cfg.Variable)
	if err != nil {
		return nil, fmt.Errorf("control run: %w", err)
	}
	clim, err := MonthlyClimatology(control)
	if err != nil {
		return nil, fmt.Errorf("control run: %w", err)
	}
	return clim, nil
}

// anomalyField picks the anomaly method for a raw ensemble: climatological
// when a control climatology is present, otherwise each member's own
// pre-eruption baseline.
func anomalyField(cfg *contract.Config, raw *grid.Field, clim *grid.Climatology) (*grid.Field, error) {
	if clim != nil {
		return SubtractClimatology(raw, clim)
	}
	return BaselineAnomaly(raw, cfg.EruptionIndex, cfg.PreMonths)
}

// recordComposites persists one row per phase composite. Failures only
// warn, so run tracking never blocks an analysis.
func recordComposites(store contract.RunStore, runID int64, set *schema.CompositeSet) {
	for _, phase := range set.Phases {
		mean, peak, nino, err := compositeStats(set.Fields[phase])
		if err != nil {
			contract.LogWarn("Composite stats failed", err)
			continue
		}
		record := schema.CompositeRecord{
			RunID:       runID,
			Scenario:    set.Scenario,
			Phase:       string(phase),
			RecordTime:  time.Now(),
			MemberCount: int32(set.Counts[phase]),
			MeanAnomaly: mean,
			PeakAnomaly: peak,
			Nino34Mean:  nino,
		}
		if err := store.RecordComposite(runID, record); err != nil {
			contract.LogWarn("Failed to record composite", err)
		}
	}
}

// compositeStats condenses one composite field into headline numbers: mean
// and largest-magnitude global anomaly plus the mean Nino 3.4 anomaly.
// The peak keeps its sign.
func compositeStats(field *grid.Field) (mean, peak, nino float64, err error) {
	global, err := GlobalMean(field)
	if err != nil {
		return 0, 0, 0, err
	}
	values := global.MemberValues(0)
	if mean, err = stats.Mean(values); err != nil {
		return 0, 0, 0, err
	}
	for _, v := range values {
		if math.Abs(v) > math.Abs(peak) {
			peak = v
		}
	}

	ninoSeries, err := Nino34(field)
	if err != nil {
		return 0, 0, 0, err
	}
	if nino, err = stats.Mean(ninoSeries.MemberValues(0)); err != nil {
		return 0, 0, 0, err
	}
	return mean, peak, nino, nil
}
