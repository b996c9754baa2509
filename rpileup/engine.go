package rpileup

import (
	"github.com/biogo/hts/sam"

	"github.com/biomancy/reat/counting"
	"github.com/biomancy/reat/genomics"
)

// Workload is one unit of pileup work: a bounding interval plus the ROIs
// it covers. Loci and regions mode use the same ROI items.
type Workload struct {
	Interval genomics.Interval
	Items    []genomics.ROI
}

// PileupEngine fetches reads in an interval, drives a Counter over them,
// and slices the resulting buffer into one AggregatedNucCountsItem per
// workload item. One engine is owned by a single worker thread.
type PileupEngine struct {
	source  ReadSource
	counter *counting.Counter
}

// NewPileupEngine builds an engine reading from source and crediting bases
// into counter's buffer.
func NewPileupEngine(source ReadSource, counter *counting.Counter) *PileupEngine {
	return &PileupEngine{source: source, counter: counter}
}

// Run executes the pileup engine contract from spec.md §4.5: reset the
// buffer, fetch and credit every read overlapping w.Interval, then slice
// the buffer into one item per workload entry.
func (e *PileupEngine) Run(w Workload) (AggregatedNucCounts, error) {
	e.counter.ResetInterval(w.Interval)

	if err := e.source.Fetch(w.Interval, func(rec *sam.Record) error {
		e.counter.Process(rec)
		return nil
	}); err != nil {
		return AggregatedNucCounts{}, err
	}

	content := e.counter.Buffer().Content()
	items := make([]AggregatedNucCountsItem, 0, len(w.Items))
	for _, roi := range w.Items {
		off := int(roi.Interval.Start - w.Interval.Start)
		length := int(roi.Interval.Len())
		item := AggregatedNucCountsItem{Range: genomics.Range{Start: roi.Interval.Start - w.Interval.Start, End: roi.Interval.End - w.Interval.Start}}
		if content.Unstranded != nil {
			item.Unstranded = content.Unstranded[off : off+length]
		}
		if content.Forward != nil {
			item.Forward = content.Forward[off : off+length]
		}
		if content.Reverse != nil {
			item.Reverse = content.Reverse[off : off+length]
		}
		items = append(items, item)
	}

	return AggregatedNucCounts{Items: items, ReadsCounted: e.counter.ReadsCounted()}, nil
}
