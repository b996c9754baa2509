package hooks

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/biomancy/reat/mismatches"
)

// RunSummary accumulates per-ROI coverage (per-site coverage for site
// batches) across the whole run and reports
// its distribution at teardown. This is the run-level complement to
// ROIEditingIndex: where that hook sums counts, this one tracks the shape
// of the coverage distribution so a caller can flag runs with unusually
// patchy or skewed coverage.
type RunSummary struct {
	mu       sync.Mutex
	coverage []float64
}

// NewRunSummary builds an empty coverage-distribution accumulator.
func NewRunSummary() *RunSummary {
	return &RunSummary{}
}

func (s *RunSummary) Name() string { return "run_summary" }

func (s *RunSummary) Observe(batch mismatches.ROIBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range batch.Coverage {
		s.coverage = append(s.coverage, float64(c))
	}
}

// ObserveSites folds per-site coverage into the same distribution, so
// -summary reports something meaningful for loci-mode runs too.
func (s *RunSummary) ObserveSites(batch mismatches.SiteBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range batch.Sequenced {
		s.coverage = append(s.coverage, float64(c.Coverage()))
	}
}

// CoverageStats reports the mean, standard deviation and (p50, p90, p99)
// quantiles of the per-ROI and per-site coverage observed so far. Quantiles sort a private
// copy of the accumulated samples, since gonum's quantile functions require
// sorted input.
func (s *RunSummary) CoverageStats() (mean, stddev float64, quantiles [3]float64) {
	s.mu.Lock()
	samples := append([]float64(nil), s.coverage...)
	s.mu.Unlock()

	if len(samples) == 0 {
		return 0, 0, [3]float64{}
	}

	mean, stddev = stat.MeanStdDev(samples, nil)
	sort.Float64s(samples)
	quantiles = [3]float64{
		stat.Quantile(0.50, stat.Empirical, samples, nil),
		stat.Quantile(0.90, stat.Empirical, samples, nil),
		stat.Quantile(0.99, stat.Empirical, samples, nil),
	}
	return mean, stddev, quantiles
}
