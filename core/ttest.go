package core

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/internal"
	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

// onsetSeries keeps the two member-resolved anomaly series a pairwise
// test compares, already cut to the post-eruption window.
type onsetSeries struct {
	global *grid.Series
	nino34 *grid.Series
}

// runTTestCore compares every pair of onset scenarios with a per-month
// Welch t-test across ensemble members, on the global mean anomaly and on
// the Nino 3.4 anomaly. Pairs come out in input order, first scenario
// against each later one.
func runTTestCore(ctx context.Context, cfg *contract.Config, loader contract.EnsembleLoader, mgr contract.CacheManager) (*schema.TTestResult, error) {
	if len(cfg.Onsets) < 2 {
		return nil, fmt.Errorf("pairwise testing needs at least two scenarios, got %d", len(cfg.Onsets))
	}
	if !headersSuppressed(ctx) {
		internal.LogAnalysisHeader(cfg, "ttest")
	}

	clim, err := controlClimatology(ctx, cfg, loader)
	if err != nil {
		return nil, err
	}

	series := make(map[string]*onsetSeries, len(cfg.Onsets))
	for _, onset := range cfg.Onsets {
		s, err := onsetAnomalySeries(ctx, cfg, loader, mgr, clim, onset)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", onset, err)
		}
		series[onset] = s
	}

	result := &schema.TTestResult{Season: cfg.Season, Scenarios: cfg.Onsets}
	for i := 0; i < len(cfg.Onsets); i++ {
		for j := i + 1; j < len(cfg.Onsets); j++ {
			first, second := cfg.Onsets[i], cfg.Onsets[j]
			pair, err := testPair(series[first], series[second], first, second)
			if err != nil {
				return nil, err
			}
			result.Pairs = append(result.Pairs, *pair)
		}
	}
	return result, nil
}

// onsetAnomalySeries loads one scenario and reduces its anomaly field to
// the global mean and Nino 3.4 series over [idx, idx+post), optionally
// filtered to a season.
func onsetAnomalySeries(ctx context.Context, cfg *contract.Config, loader contract.EnsembleLoader, mgr contract.CacheManager, clim *grid.Climatology, scenario string) (*onsetSeries, error) {
	raw, err := cachedLoadEnsemble(ctx, cfg, loader, mgr, scenario)
	if err != nil {
		return nil, err
	}
	anom, err := anomalyField(cfg, raw, clim)
	if err != nil {
		return nil, err
	}

	global, err := GlobalMean(anom)
	if err != nil {
		return nil, err
	}
	nino, err := Nino34(anom)
	if err != nil {
		return nil, err
	}

	lo, hi := cfg.EruptionIndex, cfg.EruptionIndex+cfg.PostMonths
	if global, err = global.TimeSlice(lo, hi); err != nil {
		return nil, fmt.Errorf("post-eruption window: %w", err)
	}
	if nino, err = nino.TimeSlice(lo, hi); err != nil {
		return nil, fmt.Errorf("post-eruption window: %w", err)
	}

	if cfg.Season != "" {
		months, err := grid.SeasonMonths(cfg.Season)
		if err != nil {
			return nil, err
		}
		if global, err = global.SelectMonths(months...); err != nil {
			return nil, fmt.Errorf("season %s: %w", cfg.Season, err)
		}
		if nino, err = nino.SelectMonths(months...); err != nil {
			return nil, fmt.Errorf("season %s: %w", cfg.Season, err)
		}
	}
	return &onsetSeries{global: global, nino34: nino}, nil
}

// testPair runs both Welch series for one ordered scenario pair.
func testPair(a, b *onsetSeries, first, second string) (*schema.PairStats, error) {
	if a.global.NumTimes() != b.global.NumTimes() {
		return nil, fmt.Errorf("%s and %s cover different numbers of time steps", first, second)
	}

	pair := &schema.PairStats{First: first, Second: second}
	for t, month := range a.global.Times {
		gt, gp := welchTTest(memberColumn(a.global, t), memberColumn(b.global, t))
		nt, np := welchTTest(memberColumn(a.nino34, t), memberColumn(b.nino34, t))
		pair.Samples = append(pair.Samples, schema.PairSample{
			Step:    t,
			Month:   month.String(),
			GlobalT: gt,
			GlobalP: gp,
			Nino34T: nt,
			Nino34P: np,
		})
	}
	return pair, nil
}

// memberColumn copies the cross-member sample at one time step.
func memberColumn(s *grid.Series, t int) []float64 {
	col := make([]float64, s.NumMembers())
	for m := range col {
		col[m] = s.Value(m, t)
	}
	return col
}

// welchTTest runs a two-sided Welch t-test on two independent samples
// with Welch-Satterthwaite degrees of freedom. Identical samples come
// out at t=0, p=1 whenever they have any spread at all.
func welchTTest(a, b []float64) (t, p float64) {
	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	sa := varA / float64(len(a))
	sb := varB / float64(len(b))

	t = (meanA - meanB) / math.Sqrt(sa+sb)
	df := (sa + sb) * (sa + sb) / (sa*sa/float64(len(a)-1) + sb*sb/float64(len(b)-1))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * (1 - dist.CDF(math.Abs(t)))
	return t, p
}
