// Package core has core logic for anomalies, phase classification,
// composites and pairwise significance tests.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/internal/ncdf"
	"github.com/tephralab/plume/internal/outwriter"
	"github.com/tephralab/plume/schema"
)

// ExecuteComposite runs the phase-composite analysis for every onset
// scenario and prints the results. It serves as the main entry point for
// the 'composite' command.
func ExecuteComposite(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	loader := ncdf.NewLoader(cfg.BasePath)
	result, err := runCompositeCore(ctx, cfg, loader, mgr)
	if err != nil {
		return err
	}
	if cfg.SaveDir != "" {
		if err := saveComposites(result, cfg); err != nil {
			return err
		}
	}
	duration := time.Since(start)
	return outwriter.PrintAnalysisResult(result, cfg, duration)
}

// ExecutePhases classifies every ensemble member by ENSO phase and prints
// the per-member table. It serves as the main entry point for the 'phases'
// command.
func ExecutePhases(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	loader := ncdf.NewLoader(cfg.BasePath)
	result, err := runPhasesCore(ctx, cfg, loader, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintPhaseResult(result, cfg, duration)
}

// ExecuteTTest runs pairwise Welch t-tests between all onset scenarios and
// prints the per-month statistics. It serves as the main entry point for
// the 'ttest' command.
func ExecuteTTest(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	loader := ncdf.NewLoader(cfg.BasePath)
	result, err := runTTestCore(ctx, cfg, loader, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintTTestResult(result, cfg, duration)
}

// ExecutePack concatenates each scenario's member files into one ensemble
// file at the base path. It serves as the main entry point for the 'pack'
// command.
func ExecutePack(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	if cfg.Suffix != "" && len(cfg.Onsets) > 1 {
		return fmt.Errorf("--suffix needs exactly one onset scenario, got %d", len(cfg.Onsets))
	}

	loader := ncdf.NewLoader(cfg.BasePath)
	results := make([]schema.PackResult, 0, len(cfg.Onsets))
	for _, onset := range cfg.Onsets {
		if !headersSuppressed(ctx) {
			if cfg.UseEmojis {
				fmt.Printf("📦 Packing %s (%d members)...\n", onset, len(cfg.Members))
			} else {
				fmt.Printf("Packing %s (%d members)...\n", onset, len(cfg.Members))
			}
		}

		fields, err := loader.LoadMembers(ctx, onset, cfg.Members, cfg.Variable)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", onset, err)
		}
		suffix := cfg.Suffix
		if suffix == "" {
			suffix = "_" + onset
		}
		field, path, err := loader.SaveEnsemble(fields, cfg.Members, cfg.Variable, suffix)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", onset, err)
		}
		results = append(results, schema.PackResult{
			Scenario:   onset,
			Variable:   cfg.Variable,
			Members:    len(cfg.Members),
			OutputPath: path,
			TimeSteps:  field.NumTimes(),
			LatPoints:  field.NumLats(),
			LonPoints:  field.NumLons(),
		})
	}
	duration := time.Since(start)
	return outwriter.PrintPackResults(results, cfg, duration)
}

// ExecuteRegions displays the fixed ENSO index regions. This is a static
// display that does not require model output.
func ExecuteRegions(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.PrintRegionResult(Regions(), cfg)
}

// saveComposites writes every phase composite as a NetCDF file under
// cfg.SaveDir, one file per scenario and phase.
func saveComposites(result *schema.AnalysisResult, cfg *contract.Config) error {
	if err := os.MkdirAll(cfg.SaveDir, 0o755); err != nil {
		return fmt.Errorf("save dir: %w", err)
	}
	for _, scenario := range result.Scenarios {
		set := result.Sets[scenario]
		for _, phase := range set.Phases {
			name := fmt.Sprintf("%s_%s_%s.nc", scenario, cfg.Variable, strings.ReplaceAll(string(phase), " ", "_"))
			path := filepath.Join(cfg.SaveDir, name)
			if err := ncdf.WriteField(set.Fields[phase], cfg.Variable, path); err != nil {
				return fmt.Errorf("composite %s %s: %w", scenario, phase, err)
			}
		}
	}
	return nil
}
