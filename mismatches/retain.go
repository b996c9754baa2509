package mismatches

import (
	"github.com/biogo/store/interval"

	"github.com/biomancy/reat/genomics"
)

// RetainROIFromList accepts an ROI iff (interval, name) appears in a
// precomputed set, built once at startup and shared by reference across
// worker threads (spec.md §5).
type RetainROIFromList struct {
	set map[roiKey]struct{}
}

type roiKey struct {
	genomics.Interval
	Name string
}

// NewRetainROIFromList builds the retention set from a list of ROIs.
func NewRetainROIFromList(rois []genomics.ROI) *RetainROIFromList {
	set := make(map[roiKey]struct{}, len(rois))
	for _, r := range rois {
		set[roiKey{r.Interval, r.Name}] = struct{}{}
	}
	return &RetainROIFromList{set: set}
}

func (r *RetainROIFromList) Accept(rec ROIRecord) bool {
	_, ok := r.set[roiKey{rec.ROI.Interval, rec.ROI.Name}]
	return ok
}

// intRange is an interval.IntRange-compatible augmented-tree entry for a
// single retained interval on one contig.
type intRange struct {
	id         uintptr
	start, end int
}

func (r intRange) Overlap(b interval.IntRange) bool { return r.start < b.End && b.Start < r.end }
func (r intRange) ID() uintptr                      { return r.id }
func (r intRange) Range() interval.IntRange         { return interval.IntRange{Start: r.start, End: r.end} }

// RetainSitesFromIntervals answers "which sub-ranges of a query interval
// overlap the retained set" via a per-contig augmented interval tree
// (spec.md §4.8).
type RetainSitesFromIntervals struct {
	trees map[string]*interval.IntTree
}

// NewRetainSitesFromIntervals builds one interval tree per contig from the
// given retained intervals.
func NewRetainSitesFromIntervals(retained []genomics.Interval) *RetainSitesFromIntervals {
	trees := make(map[string]*interval.IntTree)
	for i, iv := range retained {
		tree, ok := trees[iv.Contig]
		if !ok {
			tree = &interval.IntTree{}
			trees[iv.Contig] = tree
		}
		_ = tree.Insert(intRange{id: uintptr(i), start: int(iv.Start), end: int(iv.End)}, true)
	}
	for _, tree := range trees {
		tree.AdjustRanges()
	}
	return &RetainSitesFromIntervals{trees: trees}
}

// Overlapping returns the sub-ranges of [start,end) on contig that overlap
// at least one retained interval, clipped to the query range.
func (r *RetainSitesFromIntervals) Overlapping(contig string, start, end int) []genomics.Range {
	tree, ok := r.trees[contig]
	if !ok {
		return nil
	}
	hits := tree.Get(intRange{start: start, end: end})
	ranges := make([]genomics.Range, 0, len(hits))
	for _, h := range hits {
		ir := h.(intRange)
		clippedStart := max(start, ir.start)
		clippedEnd := min(end, ir.end)
		if clippedStart < clippedEnd {
			ranges = append(ranges, genomics.Range{Start: uint64(clippedStart), End: uint64(clippedEnd)})
		}
	}
	return ranges
}
