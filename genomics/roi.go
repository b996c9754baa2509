package genomics

import (
	"sort"

	"github.com/pkg/errors"
)

// ROI is one named Region Of Interest: a contig-bound interval, optionally
// split into disjoint blocks (exon-style sub-intervals). Blocks are always
// relative to Interval.Start.
type ROI struct {
	Interval Interval
	Name     string
	// Blocks are sorted, non-overlapping, and contained within Interval. A
	// nil/empty Blocks means "the whole interval is one block" (see
	// Subintervals).
	Blocks []Range
}

// Subintervals returns the ROI's blocks, defaulting to a single block
// spanning the whole interval when no explicit blocks were given.
func (r ROI) Subintervals() []Range {
	if len(r.Blocks) > 0 {
		return r.Blocks
	}
	return []Range{{Start: 0, End: r.Interval.Len()}}
}

// Validate checks the blocks invariant from spec.md §3: sorted,
// non-overlapping, contained in the enclosing interval.
func (r ROI) Validate() error {
	if err := r.Interval.Validate(); err != nil {
		return err
	}
	span := r.Interval.Len()
	var prevEnd uint64
	for i, b := range r.Blocks {
		if b.Start > b.End {
			return errors.Errorf("roi %s: block %d has start > end", r.Name, i)
		}
		if b.End > span {
			return errors.Errorf("roi %s: block %d extends past the ROI interval", r.Name, i)
		}
		if i > 0 && b.Start < prevEnd {
			return errors.Errorf("roi %s: blocks are not sorted/non-overlapping", r.Name)
		}
		prevEnd = b.End
	}
	return nil
}

// SortROIs sorts rois in place by (contig, start, end), the order required
// by the workload partitioner (spec.md §4.11) and by the final output sink
// (spec.md §4.12).
func SortROIs(rois []ROI) {
	sort.Slice(rois, func(i, j int) bool {
		a, b := rois[i].Interval, rois[j].Interval
		if a.Contig != b.Contig {
			return a.Contig < b.Contig
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
}
