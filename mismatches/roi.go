// Package mismatches folds aggregated nucleotide counts against a
// predicted reference into batched ROI or site mismatch records, in a
// struct-of-arrays layout so filter/restrand/flatten stay allocation-light.
package mismatches

import (
	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/nuc"
)

// ROIRecord is one row of an ROIBatch, used by Flatten and by callers that
// want a single entry rather than the whole batch.
type ROIRecord struct {
	ROI        genomics.ROI
	Strand     nuc.Strand
	Coverage   uint32
	Masked     uint32
	PredNuc    nuc.Counts
	Mismatches nuc.Matrix
}

// ROIBatch holds every ROI mismatch record sharing one contig, struct-of-
// arrays style. Every slice has the same length; a batch may still mix
// strands (Filter/Restrand operate across them) until Restrand partitions
// it by Strand.
type ROIBatch struct {
	Contig     string
	ROIs       []genomics.ROI
	Strands    []nuc.Strand
	Coverage   []uint32
	Masked     []uint32
	PredNuc    []nuc.Counts
	Mismatches []nuc.Matrix
}

// Len returns the number of records in the batch.
func (b ROIBatch) Len() int {
	return len(b.ROIs)
}

// Append adds one record to the batch.
func (b *ROIBatch) Append(r ROIRecord) {
	b.ROIs = append(b.ROIs, r.ROI)
	b.Strands = append(b.Strands, r.Strand)
	b.Coverage = append(b.Coverage, r.Coverage)
	b.Masked = append(b.Masked, r.Masked)
	b.PredNuc = append(b.PredNuc, r.PredNuc)
	b.Mismatches = append(b.Mismatches, r.Mismatches)
}

// At returns the i'th record as a value, for callers that don't need the
// whole batch.
func (b ROIBatch) At(i int) ROIRecord {
	return ROIRecord{
		ROI:        b.ROIs[i],
		Strand:     b.Strands[i],
		Coverage:   b.Coverage[i],
		Masked:     b.Masked[i],
		PredNuc:    b.PredNuc[i],
		Mismatches: b.Mismatches[i],
	}
}

// Filter retains indices where mask[i] is true, preserving relative order.
func (b ROIBatch) Filter(mask []bool) ROIBatch {
	out := ROIBatch{Contig: b.Contig}
	for i, keep := range mask {
		if keep {
			out.Append(b.At(i))
		}
	}
	return out
}

// Restrand partitions the batch into three new batches by the given
// per-element strand assignment (which need not match the batch's current
// Strands), satisfying P3: every input record appears in exactly one
// output batch.
func (b ROIBatch) Restrand(strands []nuc.Strand) (forward, reverse, unknown ROIBatch) {
	forward.Contig, reverse.Contig, unknown.Contig = b.Contig, b.Contig, b.Contig
	for i, s := range strands {
		rec := b.At(i)
		rec.Strand = s
		switch s {
		case nuc.Forward:
			forward.Append(rec)
		case nuc.Reverse:
			reverse.Append(rec)
		default:
			unknown.Append(rec)
		}
	}
	return forward, reverse, unknown
}

// Flatten converts the batch to row-wise records for emission.
func (b ROIBatch) Flatten() []ROIRecord {
	records := make([]ROIRecord, b.Len())
	for i := range records {
		records[i] = b.At(i)
	}
	return records
}
