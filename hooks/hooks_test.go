package hooks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/hooks"
	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/nuc"
)

func TestByEditingMask(t *testing.T) {
	f := hooks.ByEditing{MinMismatches: 2, MinFreq: 0.2}

	var strong, weak nuc.Matrix
	strong.AddN(nuc.A, nuc.A, 7)
	strong.AddN(nuc.A, nuc.G, 3)
	weak.AddN(nuc.A, nuc.A, 99)
	weak.AddN(nuc.A, nuc.G, 1)

	var batch mismatches.ROIBatch
	batch.Append(mismatches.ROIRecord{Mismatches: strong})
	batch.Append(mismatches.ROIRecord{Mismatches: weak})

	mask := f.Mask(batch)
	require.Len(t, mask, 2)
	assert.True(t, mask[0])
	assert.False(t, mask[1])
}

func TestByEditingMaskSites(t *testing.T) {
	f := hooks.ByEditing{MinMismatches: 2, MinFreq: 0.2}

	var batch mismatches.SiteBatch
	batch.Append(mismatches.SiteRecord{PredNuc: nuc.A, Sequenced: nuc.Counts{A: 7, G: 3}})
	batch.Append(mismatches.SiteRecord{PredNuc: nuc.A, Sequenced: nuc.Counts{A: 99, G: 1}})

	mask := f.MaskSites(batch)
	require.Len(t, mask, 2)
	assert.True(t, mask[0])
	assert.False(t, mask[1])
}

func TestEngineOnFinishSitesFiltersThenObserves(t *testing.T) {
	filter := hooks.ByEditing{MinMismatches: 2, MinFreq: 0.2}
	idx := hooks.NewROIEditingIndex()
	engine := hooks.NewEngine([]hooks.FilterHook{filter}, []hooks.StatHook{idx})

	var batch mismatches.SiteBatch
	batch.Append(mismatches.SiteRecord{Position: 1, PredNuc: nuc.A, Sequenced: nuc.Counts{A: 7, G: 3}})
	batch.Append(mismatches.SiteRecord{Position: 2, PredNuc: nuc.A, Sequenced: nuc.Counts{A: 99}})

	out := engine.OnFinishSites(batch)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, uint64(1), out.Positions[0])
}

func TestEngineOnFinishFiltersThenObserves(t *testing.T) {
	filter := hooks.ByEditing{MinMismatches: 2, MinFreq: 0.2}
	idx := hooks.NewROIEditingIndex()
	engine := hooks.NewEngine([]hooks.FilterHook{filter}, []hooks.StatHook{idx})

	var strong, weak nuc.Matrix
	strong.AddN(nuc.A, nuc.A, 7)
	strong.AddN(nuc.A, nuc.G, 3)
	weak.AddN(nuc.A, nuc.A, 99)

	var batch mismatches.ROIBatch
	batch.Append(mismatches.ROIRecord{ROI: genomics.ROI{Name: "strong"}, Mismatches: strong})
	batch.Append(mismatches.ROIRecord{ROI: genomics.ROI{Name: "weak"}, Mismatches: weak})

	out := engine.OnFinish(batch)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "strong", out.ROIs[0].Name)

	stat, ok := engine.Stat("roi_editing_index")
	require.True(t, ok)
	assert.Same(t, idx, stat)
}

// Two ROIs each with A->G=3, A->A=7: the combined editing index for A->G
// is 6/20 = 0.3.
func TestROIEditingIndexEndToEnd(t *testing.T) {
	idx := hooks.NewROIEditingIndex()

	var m nuc.Matrix
	m.AddN(nuc.A, nuc.A, 7)
	m.AddN(nuc.A, nuc.G, 3)

	var batch mismatches.ROIBatch
	batch.Append(mismatches.ROIRecord{Mismatches: m})
	batch.Append(mismatches.ROIRecord{Mismatches: m})

	idx.Observe(batch)
	assert.InDelta(t, 0.3, idx.Ratio(nuc.A, nuc.G), 1e-9)

	table := idx.Table()
	assert.InDelta(t, 0.3, table["A->G"], 1e-9)
	assert.InDelta(t, 0.0, table["C->T"], 1e-9)
}

func TestRunSummaryCoverageStats(t *testing.T) {
	s := hooks.NewRunSummary()

	var batch mismatches.ROIBatch
	batch.Coverage = []uint32{10, 20, 30, 40, 50}
	batch.ROIs = make([]genomics.ROI, 5)
	batch.Strands = make([]nuc.Strand, 5)
	batch.Masked = make([]uint32, 5)
	batch.PredNuc = make([]nuc.Counts, 5)
	batch.Mismatches = make([]nuc.Matrix, 5)

	s.Observe(batch)
	mean, stddev, quantiles := s.CoverageStats()
	assert.InDelta(t, 30, mean, 1e-9)
	assert.Greater(t, stddev, 0.0)
	assert.InDelta(t, 30, quantiles[0], 1e-9)
}

func TestRunSummaryEmpty(t *testing.T) {
	s := hooks.NewRunSummary()
	mean, stddev, quantiles := s.CoverageStats()
	assert.Zero(t, mean)
	assert.Zero(t, stddev)
	assert.Zero(t, quantiles)
}
