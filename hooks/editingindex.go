package hooks

import (
	"sync"

	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/nuc"
)

// ROIEditingIndex accumulates the sum of mismatch matrices across every
// batch it observes, producing a reference->observed rate table at
// teardown (spec.md §4.10); Table reports all 16 pairs, the diagonal
// included. Safe for concurrent Observe calls since the
// global hooks engine runs after per-thread batches are gathered but
// before any further fan-out.
type ROIEditingIndex struct {
	mu     sync.Mutex
	totals nuc.Matrix
}

// NewROIEditingIndex builds an empty editing-index accumulator.
func NewROIEditingIndex() *ROIEditingIndex {
	return &ROIEditingIndex{}
}

func (idx *ROIEditingIndex) Name() string { return "roi_editing_index" }

func (idx *ROIEditingIndex) Observe(batch mismatches.ROIBatch) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, m := range batch.Mismatches {
		idx.totals.Merge(m)
	}
}

// ObserveSites folds each site's predicted/sequenced pair into the same
// running totals, so loci-mode runs populate the editing index too.
func (idx *ROIEditingIndex) ObserveSites(batch mismatches.SiteBatch) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i := 0; i < batch.Len(); i++ {
		idx.totals.Merge(batch.MatrixAt(i))
	}
}

// Ratio returns sum(ref->obs) / sum(coverage of ref), the editing index
// for one reference/observed pair, e.g. Ratio(nuc.A, nuc.G) for A->G.
func (idx *ROIEditingIndex) Ratio(ref, obs nuc.Nucleotide) float64 {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	coverage := idx.totals.RowCounts(ref).Coverage()
	if coverage == 0 {
		return 0
	}
	return float64(idx.totals[ref][obs]) / float64(coverage)
}

// Table returns all 16 reference->observed ratios, keyed the way the
// regions-mode output columns are named ("A->G", etc).
func (idx *ROIEditingIndex) Table() map[string]float64 {
	out := make(map[string]float64, nuc.NBase*nuc.NBase)
	for _, ref := range []nuc.Nucleotide{nuc.A, nuc.C, nuc.G, nuc.T} {
		for _, obs := range []nuc.Nucleotide{nuc.A, nuc.C, nuc.G, nuc.T} {
			out[ref.String()+"->"+obs.String()] = idx.Ratio(ref, obs)
		}
	}
	return out
}
