package stranding

import (
	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/nuc"
)

// ByEditing assigns strand from the dominant editing signal: A->G bias
// implies Forward, the reverse-complement T->C bias implies Reverse.
type ByEditing struct {
	MinMismatches uint32
	MinFreq       float64
}

func (a ByEditing) Classify(batch mismatches.ROIBatch) []nuc.Strand {
	strands := make([]nuc.Strand, batch.Len())
	for i, m := range batch.Mismatches {
		strands[i] = a.classifyOne(m)
	}
	return strands
}

// ClassifySites applies the same A->G/T->C threshold one site at a time,
// folding each site's predicted/sequenced pair into a single-row matrix.
func (a ByEditing) ClassifySites(batch mismatches.SiteBatch) []nuc.Strand {
	strands := make([]nuc.Strand, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		strands[i] = a.classifyOne(batch.MatrixAt(i))
	}
	return strands
}

func (a ByEditing) classifyOne(m nuc.Matrix) nuc.Strand {
	ag, covA := m[nuc.A][nuc.G], m.RowCounts(nuc.A).Coverage()
	tc, covT := m[nuc.T][nuc.C], m.RowCounts(nuc.T).Coverage()

	freqAG := ratio(ag, covA)
	freqTC := ratio(tc, covT)

	agOk := ag >= a.MinMismatches && freqAG >= a.MinFreq
	tcOk := tc >= a.MinMismatches && freqTC >= a.MinFreq

	switch {
	case agOk && (!tcOk || freqAG >= freqTC):
		return nuc.Forward
	case tcOk:
		return nuc.Reverse
	default:
		return nuc.StrandUnknown
	}
}

func ratio(count, total uint32) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
