// Package rpileup drives indexed BAM fetches for one interval and turns
// the resulting alignment records into an AggregatedNucCounts view, ready
// for the reference predictor and mismatch builder.
package rpileup

import (
	"github.com/biogo/hts/sam"

	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/nuc"
)

// AggregatedNucCountsItem is one workload item's (an ROI, in both loci
// and regions mode) view into the counts buffer: a range plus exactly
// one of {Unstranded} or {Forward, Reverse} (optionally with an Unstranded
// fallback, per spec.md §3).
type AggregatedNucCountsItem struct {
	Range      genomics.Range
	Unstranded []nuc.Counts
	Forward    []nuc.Counts
	Reverse    []nuc.Counts
}

// IsStranded reports whether the item carries per-strand slices.
func (it AggregatedNucCountsItem) IsStranded() bool {
	return it.Forward != nil || it.Reverse != nil
}

// SeqNuc returns Unstranded for an unstranded item. For a stranded item
// (with or without an Unstranded fallback) it sums Forward and Reverse
// channel-wise into dst and returns dst; the fallback slice is not added.
func (it AggregatedNucCountsItem) SeqNuc(dst []nuc.Counts) []nuc.Counts {
	if it.Unstranded != nil && !it.IsStranded() {
		return it.Unstranded
	}
	if cap(dst) < len(it.Forward) {
		dst = make([]nuc.Counts, len(it.Forward))
	} else {
		dst = dst[:len(it.Forward)]
	}
	for i := range dst {
		dst[i] = it.Forward[i]
		dst[i].Merge(it.Reverse[i])
	}
	return dst
}

// AggregatedNucCounts is the pileup engine's output for one interval: one
// item per workload ROI, plus how many reads had at least one aligned
// block intersect the interval.
type AggregatedNucCounts struct {
	Items        []AggregatedNucCountsItem
	ReadsCounted uint64
}

// ReadSource supplies alignment records overlapping an interval; rpileup
// consumes it without depending on a concrete BAM implementation, the way
// the read filter's ReadOk/BaseOk are consumed through an interface rather
// than a concrete type.
type ReadSource interface {
	Fetch(iv genomics.Interval, visit func(rec *sam.Record) error) error
}
