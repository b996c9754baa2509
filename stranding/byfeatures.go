package stranding

import (
	"github.com/biogo/store/interval"

	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/nuc"
)

type featureInterval struct {
	id         uintptr
	start, end int
	strand     nuc.Strand
}

func (f featureInterval) Overlap(b interval.IntRange) bool { return f.start < b.End && b.Start < f.end }
func (f featureInterval) ID() uintptr                      { return f.id }
func (f featureInterval) Range() interval.IntRange {
	return interval.IntRange{Start: f.start, End: f.end}
}

// ByFeatures assigns strand from a prebuilt GFF3 feature map: if exactly
// one strand covers at least Threshold of an entry's length, that strand
// is assigned; otherwise the entry is left Unknown.
type ByFeatures struct {
	trees     map[string]*interval.IntTree
	Threshold float64
}

// NewByFeatures builds the strand map from parsed GFF3 features.
func NewByFeatures(features []genomics.Feature, threshold float64) *ByFeatures {
	trees := make(map[string]*interval.IntTree)
	for i, f := range features {
		tree, ok := trees[f.Interval.Contig]
		if !ok {
			tree = &interval.IntTree{}
			trees[f.Interval.Contig] = tree
		}
		_ = tree.Insert(featureInterval{
			id:     uintptr(i),
			start:  int(f.Interval.Start),
			end:    int(f.Interval.End),
			strand: f.Strand,
		}, true)
	}
	for _, tree := range trees {
		tree.AdjustRanges()
	}
	return &ByFeatures{trees: trees, Threshold: threshold}
}

func (a *ByFeatures) Classify(batch mismatches.ROIBatch) []nuc.Strand {
	strands := make([]nuc.Strand, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		roi := batch.ROIs[i]
		strands[i] = a.classifyOne(roi)
	}
	return strands
}

// ClassifySites looks up the single-base interval each site occupies,
// reusing classifyOne's fractional-overlap threshold over a length-1 ROI.
func (a *ByFeatures) ClassifySites(batch mismatches.SiteBatch) []nuc.Strand {
	strands := make([]nuc.Strand, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		pos := batch.Positions[i]
		roi := genomics.ROI{Interval: genomics.Interval{Contig: batch.Contig, Start: pos, End: pos + 1}}
		strands[i] = a.classifyOne(roi)
	}
	return strands
}

func (a *ByFeatures) classifyOne(roi genomics.ROI) nuc.Strand {
	tree, ok := a.trees[roi.Interval.Contig]
	if !ok {
		return nuc.StrandUnknown
	}
	start, end := int(roi.Interval.Start), int(roi.Interval.End)
	length := end - start
	if length <= 0 {
		return nuc.StrandUnknown
	}

	var forwardLen, reverseLen int
	hits := tree.Get(featureInterval{start: start, end: end})
	for _, h := range hits {
		fi := h.(featureInterval)
		overlap := min(end, fi.end) - max(start, fi.start)
		if overlap <= 0 {
			continue
		}
		if fi.strand == nuc.Forward {
			forwardLen += overlap
		} else if fi.strand == nuc.Reverse {
			reverseLen += overlap
		}
	}

	forwardFrac := float64(forwardLen) / float64(length)
	reverseFrac := float64(reverseLen) / float64(length)
	switch {
	case forwardFrac >= a.Threshold && reverseFrac < a.Threshold:
		return nuc.Forward
	case reverseFrac >= a.Threshold && forwardFrac < a.Threshold:
		return nuc.Reverse
	default:
		return nuc.StrandUnknown
	}
}
