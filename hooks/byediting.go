package hooks

import (
	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/nuc"
)

// ByEditing is a post-stranding filter hook: it keeps only records whose
// A->G plus T->C count reaches MinMismatches and whose share of all
// mismatches reaches MinFreq. cmd/reat passes it the same threshold values
// as stranding.ByEditing, which measures frequency against row coverage
// instead, so the two tests can disagree on one record.
type ByEditing struct {
	MinMismatches uint32
	MinFreq       float64
}

func (f ByEditing) Mask(batch mismatches.ROIBatch) []bool {
	mask := make([]bool, batch.Len())
	for i, m := range batch.Mismatches {
		mask[i] = f.maskOne(m)
	}
	return mask
}

// MaskSites applies the same editing threshold one site at a time, via the
// single-row matrix each site folds down to.
func (f ByEditing) MaskSites(batch mismatches.SiteBatch) []bool {
	mask := make([]bool, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		mask[i] = f.maskOne(batch.MatrixAt(i))
	}
	return mask
}

func (f ByEditing) maskOne(m nuc.Matrix) bool {
	ag := m[nuc.A][nuc.G]
	tc := m[nuc.T][nuc.C]
	total := m.Mismatches()
	count := uint64(ag) + uint64(tc)
	return count >= uint64(f.MinMismatches) && total > 0 && float64(count)/float64(total) >= f.MinFreq
}
