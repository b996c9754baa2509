// Package workload partitions a genome's ROIs into balanced, contig-
// respecting work units for the run driver to fan out over its worker
// pool, per spec.md §4.11. The binning parameters echo the teacher's own
// sharding knobs (encoding/bamprovider's BytesPerShard/MinBasesPerShard),
// reworked from byte-offset sharding of one file to ROI bin-packing across
// a whole genome.
package workload

import (
	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/rpileup"
)

// Partition sorts rois by (contig, start, end) and greedily packs them
// into workloads: a bin closes when its accumulated ROI span reaches
// binSize, or the next ROI is on a different contig. Each workload's
// bounding interval is the min-start/max-end of its ROIs, with its end
// pushed out so it spans at least minIntervalSize bases; minIntervalSize
// doesn't otherwise affect packing, since ROI spans (not fetch windows)
// drive the bin boundary here.
//
// The partition is deterministic: identical inputs always yield identical
// output, in the same order.
func Partition(rois []genomics.ROI, binSize, minIntervalSize uint64) []rpileup.Workload {
	sorted := append([]genomics.ROI(nil), rois...)
	genomics.SortROIs(sorted)

	var workloads []rpileup.Workload
	var bin []genomics.ROI
	var binSpan uint64

	flush := func() {
		if len(bin) == 0 {
			return
		}
		workloads = append(workloads, rpileup.Workload{
			Interval: boundingInterval(bin, minIntervalSize),
			Items:    bin,
		})
		bin = nil
		binSpan = 0
	}

	for _, roi := range sorted {
		if len(bin) > 0 && bin[len(bin)-1].Interval.Contig != roi.Interval.Contig {
			flush()
		}
		bin = append(bin, roi)
		binSpan += roi.Interval.Len()
		if binSpan >= binSize {
			flush()
		}
	}
	flush()

	return workloads
}

// boundingInterval returns the min-start/max-end interval spanning bin's
// ROIs, widened to at least minIntervalSize so short bins still amortize
// one fetch over a reasonable window.
func boundingInterval(bin []genomics.ROI, minIntervalSize uint64) genomics.Interval {
	iv := bin[0].Interval
	start, end := iv.Start, iv.End
	for _, roi := range bin[1:] {
		if roi.Interval.Start < start {
			start = roi.Interval.Start
		}
		if roi.Interval.End > end {
			end = roi.Interval.End
		}
	}
	if end-start < minIntervalSize {
		end = start + minIntervalSize
	}
	return genomics.Interval{Contig: iv.Contig, Start: start, End: end}
}
