// Package runner fans workloads out over a worker pool, gathers each
// worker's mismatch batches, then runs the global stranding and hooks
// passes over their union, per spec.md §4.12. Its main loop mirrors
// pileup/snp/pileup.go's traverse.Each(parallelism, ...) job-slice
// pattern: parallelism fixed-size jobs, each consuming a contiguous slice
// of the (already balanced) workload list.
package runner

import (
	"context"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"

	"github.com/biomancy/reat/config"
	"github.com/biomancy/reat/encoding/fasta"
	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/hooks"
	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/nuc"
	"github.com/biomancy/reat/refnuc"
	"github.com/biomancy/reat/rerr"
	"github.com/biomancy/reat/rpileup"
	"github.com/biomancy/reat/stranding"
)

// Result is the run's final merged output, in emission order.
type Result struct {
	ROIs  []mismatches.ROIRecord
	Sites []mismatches.SiteRecord
	Hooks *hooks.Engine
}

// Run executes every workload over cfg.Threads workers, then strands and
// filters the union of their per-ROI (or per-site) batches. fa is the
// shared FASTA reader; retainer, siteRetainer and the stranding/hooks
// engines are the immutable, shared-by-reference collaborators spec.md §5
// describes. siteMode selects §4.7's site-emission path instead of
// ROI-emission; siteRetainer is ignored in ROI mode.
func Run(ctx context.Context, cfg config.Config, workloads []rpileup.Workload, fa fasta.Fasta,
	retainer mismatches.ROIRetainer, siteRetainer *mismatches.RetainSitesFromIntervals,
	strandingEngine *stranding.Engine, hooksEngine *hooks.Engine, siteMode bool) (Result, error) {

	cache := NewThreadCache(cfg, fa, retainer, siteRetainer)
	defer func() {
		if err := cache.Close(); err != nil {
			log.Printf("runner: closing thread cache: %v", err)
		}
	}()

	parallelism := cfg.Threads
	if parallelism > len(workloads) && len(workloads) > 0 {
		parallelism = len(workloads)
	}
	if parallelism <= 0 {
		parallelism = 1
	}

	perJobROIs := make([][]mismatches.ROIRecord, parallelism)
	perJobSites := make([][]mismatches.SiteRecord, parallelism)

	log.Printf("runner: starting main loop (%d jobs, %d workloads)", parallelism, len(workloads))
	accum := errors.Once{}
	err := traverse.Each(parallelism, func(jobIdx int) error {
		start := (jobIdx * len(workloads)) / parallelism
		end := ((jobIdx + 1) * len(workloads)) / parallelism

		t, err := cache.Get(ctx, jobIdx)
		if err != nil {
			accum.Set(err)
			return err
		}

		for _, w := range workloads[start:end] {
			roiRecords, siteRecords, err := runOne(t, w, siteMode)
			if err != nil {
				accum.Set(err)
				return err
			}
			perJobROIs[jobIdx] = append(perJobROIs[jobIdx], roiRecords...)
			perJobSites[jobIdx] = append(perJobSites[jobIdx], siteRecords...)
		}
		log.Debug.Printf("runner: job %d processed %d workloads", jobIdx, end-start)
		return nil
	})
	if err != nil {
		return Result{}, rerr.Wrap(accum.Err(), rerr.DataError, "runner: workload processing failed")
	}
	log.Printf("runner: main loop complete")

	sctx := &stranding.Context{}
	for _, batch := range perJobROIs {
		for _, rec := range batch {
			switch rec.Strand {
			case nuc.Forward:
				sctx.Forward.Append(rec)
			case nuc.Reverse:
				sctx.Reverse.Append(rec)
			default:
				sctx.Unknown.Append(rec)
			}
		}
	}
	strandingEngine.Run(sctx)
	finalBatch := flattenToBatch(sctx.Concat())
	finalBatch = hooksEngine.OnFinish(finalBatch)

	roiRows := finalBatch.Flatten()
	sort.Slice(roiRows, func(i, j int) bool {
		a, b := roiRows[i].ROI.Interval, roiRows[j].ROI.Interval
		if a.Contig != b.Contig {
			return a.Contig < b.Contig
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return roiRows[i].ROI.Name < roiRows[j].ROI.Name
	})

	sictx := &stranding.SiteContext{}
	for _, batch := range perJobSites {
		for _, rec := range batch {
			switch rec.Strand {
			case nuc.Forward:
				sictx.Forward.Append(rec)
			case nuc.Reverse:
				sictx.Reverse.Append(rec)
			default:
				sictx.Unknown.Append(rec)
			}
		}
	}
	strandingEngine.RunSites(sictx)
	finalSiteBatch := flattenToSiteBatch(sictx.Concat())
	finalSiteBatch = hooksEngine.OnFinishSites(finalSiteBatch)

	siteRows := finalSiteBatch.Flatten()
	sort.Slice(siteRows, func(i, j int) bool {
		if siteRows[i].Contig != siteRows[j].Contig {
			return siteRows[i].Contig < siteRows[j].Contig
		}
		return siteRows[i].Position < siteRows[j].Position
	})

	return Result{ROIs: roiRows, Sites: siteRows, Hooks: hooksEngine}, nil
}

func flattenToSiteBatch(records []mismatches.SiteRecord) mismatches.SiteBatch {
	var b mismatches.SiteBatch
	if len(records) > 0 {
		b.Contig = records[0].Contig
	}
	for _, r := range records {
		b.Append(r)
	}
	return b
}

func flattenToBatch(records []mismatches.ROIRecord) mismatches.ROIBatch {
	var b mismatches.ROIBatch
	if len(records) > 0 {
		b.Contig = records[0].ROI.Interval.Contig
	}
	for _, r := range records {
		b.Append(r)
	}
	return b
}

// runOne drives components 4.5-4.8 for one workload: pileup, reference
// prediction, and mismatch building. In ROI mode it returns only the
// Retained half of the builder's Intermediate partition; in site mode it
// returns the (possibly retain-restricted) per-channel site records,
// un-stranded and un-filtered, for Run's global stranding/hooks pass.
func runOne(t *perThread, w rpileup.Workload, siteMode bool) ([]mismatches.ROIRecord, []mismatches.SiteRecord, error) {
	counts, err := t.engine.Run(w)
	if err != nil {
		return nil, nil, rerr.Wrapf(err, rerr.DataError, "runner: pileup over %s", w.Interval)
	}

	var roiOut []mismatches.ROIRecord
	var siteOut []mismatches.SiteRecord

	for i, item := range counts.Items {
		roi := w.Items[i]
		seq := item.SeqNuc(nil)
		ref, err := t.refEng.Run(roi.Interval, seq)
		if err != nil {
			return nil, nil, rerr.Wrapf(err, rerr.DataError, "runner: reference lookup for %s", roi.Interval)
		}

		if siteMode {
			siteOut = append(siteOut, buildSiteRecords(t.siteRetainer, roi.Interval, item, ref)...)
			continue
		}

		records := t.builder.BuildROI(roi, item, ref)
		partitioned := t.builder.Partition(records)
		roiOut = append(roiOut, partitioned.Retained...)
	}

	return roiOut, siteOut, nil
}

// buildSiteRecords implements §4.7 site mode for one workload item,
// mirroring Builder.BuildROI's four-branch pattern (one BuildSite call per
// populated strand channel) instead of merging Forward/Reverse into a
// single buffer first: once bufferFor has picked a StrandedBuffer,
// item.Forward and item.Reverse are both always populated, so collapsing
// them before classification would silently conflate the two strands'
// editing signals. retainer, when non-nil, restricts the positions built
// to the sub-ranges of roiIv that overlap the retained interval set
// (spec.md §4.8's site-mode -retain).
func buildSiteRecords(retainer *mismatches.RetainSitesFromIntervals, roiIv genomics.Interval,
	item rpileup.AggregatedNucCountsItem, ref refnuc.Result) []mismatches.SiteRecord {

	var out []mismatches.SiteRecord
	for _, span := range siteSpans(retainer, roiIv) {
		subRef := refnuc.Result{
			Reference: sliceNuc(ref.Reference, span),
			Predicted: sliceNuc(ref.Predicted, span),
		}
		if seq := item.Unstranded; seq != nil && !item.IsStranded() {
			out = append(out, buildOneSpan(roiIv.Contig, roiIv.Start, span, nuc.StrandUnknown, seq, subRef)...)
		}
		if item.Forward != nil {
			out = append(out, buildOneSpan(roiIv.Contig, roiIv.Start, span, nuc.Forward, item.Forward, subRef)...)
		}
		if item.Reverse != nil {
			out = append(out, buildOneSpan(roiIv.Contig, roiIv.Start, span, nuc.Reverse, item.Reverse, subRef)...)
		}
		if item.Unstranded != nil && item.IsStranded() {
			out = append(out, buildOneSpan(roiIv.Contig, roiIv.Start, span, nuc.StrandUnknown, item.Unstranded, subRef)...)
		}
	}
	return out
}

func buildOneSpan(contig string, roiStart uint64, span genomics.Range, strand nuc.Strand, seqnuc []nuc.Counts, ref refnuc.Result) []mismatches.SiteRecord {
	sub := sliceCounts(seqnuc, span)
	batch := mismatches.BuildSite(contig, roiStart+span.Start, strand, sub, ref, false)
	return batch.Flatten()
}

// siteSpans returns the relative-to-roiIv.Start ranges that should be
// built: the whole interval when retainer is nil, otherwise the retained
// sub-ranges (possibly none).
func siteSpans(retainer *mismatches.RetainSitesFromIntervals, roiIv genomics.Interval) []genomics.Range {
	if retainer == nil {
		return []genomics.Range{{Start: 0, End: roiIv.Len()}}
	}
	overlaps := retainer.Overlapping(roiIv.Contig, int(roiIv.Start), int(roiIv.End))
	spans := make([]genomics.Range, len(overlaps))
	for i, r := range overlaps {
		spans[i] = genomics.Range{Start: r.Start - roiIv.Start, End: r.End - roiIv.Start}
	}
	return spans
}

func sliceCounts(s []nuc.Counts, span genomics.Range) []nuc.Counts {
	start, end := int(span.Start), int(span.End)
	if end > len(s) {
		end = len(s)
	}
	if start > end {
		start = end
	}
	return s[start:end]
}

func sliceNuc(s []nuc.Nucleotide, span genomics.Range) []nuc.Nucleotide {
	start, end := int(span.Start), int(span.End)
	if end > len(s) {
		end = len(s)
	}
	if start > end {
		start = end
	}
	return s[start:end]
}
