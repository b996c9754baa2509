package mismatches

import (
	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/nuc"
	"github.com/biomancy/reat/refnuc"
	"github.com/biomancy/reat/rpileup"
)

// Intermediate is a builder's output before emission: retained satisfies
// the pre-filter's "interesting" criterion; other is kept for statistics
// only.
type Intermediate[T any] struct {
	Retained []T
	Other    []T
}

// Builder folds an AggregatedNucCounts item and its reference engine
// result into ROI or site mismatch records.
type Builder struct {
	retainer ROIRetainer
}

// NewBuilder builds a Builder applying retainer as its pre-filter.
// A nil retainer accepts every record.
func NewBuilder(retainer ROIRetainer) *Builder {
	if retainer == nil {
		retainer = acceptAllROIs{}
	}
	return &Builder{retainer: retainer}
}

// ROIRetainer accepts or drops whole ROI records, step 5 of §4.7.
type ROIRetainer interface {
	Accept(r ROIRecord) bool
}

type acceptAllROIs struct{}

func (acceptAllROIs) Accept(ROIRecord) bool { return true }

// BuildROI implements §4.7 ROI mode for a single workload item: it folds
// one record per strand variant present in item (forward/reverse/unknown)
// and returns them all. The retainer is not applied here; Partition splits
// the records between Retained and Other.
func (b *Builder) BuildROI(roi genomics.ROI, item rpileup.AggregatedNucCountsItem, ref refnuc.Result) []ROIRecord {
	var records []ROIRecord
	if seq := item.Unstranded; seq != nil && !item.IsStranded() {
		records = append(records, foldROI(roi, nuc.StrandUnknown, seq, ref))
	}
	if item.Forward != nil {
		records = append(records, foldROI(roi, nuc.Forward, item.Forward, ref))
	}
	if item.Reverse != nil {
		records = append(records, foldROI(roi, nuc.Reverse, item.Reverse, ref))
	}
	if item.Unstranded != nil && item.IsStranded() {
		records = append(records, foldROI(roi, nuc.StrandUnknown, item.Unstranded, ref))
	}
	return records
}

// Partition splits records into retained/other by the builder's retainer.
func (b *Builder) Partition(records []ROIRecord) Intermediate[ROIRecord] {
	var out Intermediate[ROIRecord]
	for _, r := range records {
		if b.retainer.Accept(r) {
			out.Retained = append(out.Retained, r)
		} else {
			out.Other = append(out.Other, r)
		}
	}
	return out
}

// foldROI accumulates one ROI's blocks over a single strand's counts
// slice, per spec.md §4.7 step 3.
func foldROI(roi genomics.ROI, strand nuc.Strand, seqnuc []nuc.Counts, ref refnuc.Result) ROIRecord {
	rec := ROIRecord{ROI: roi, Strand: strand}
	for _, block := range roi.Subintervals() {
		for p := block.Start; p < block.End && int(p) < len(ref.Predicted); p++ {
			predicted := ref.Predicted[p]
			if predicted == nuc.Unknown {
				rec.Masked++
				continue
			}
			rec.PredNuc.Add(predicted)
			rec.Mismatches.AddCounts(predicted, seqnuc[p])
			rec.Coverage += seqnuc[p].Coverage()
		}
	}
	return rec
}

// BuildSite implements §4.7 site mode for a single workload item: one
// record per covered position where predicted is known and either at least
// one sequenced base differs from predicted or keepAll is set.
func BuildSite(contig string, startPos uint64, strand nuc.Strand, seqnuc []nuc.Counts, ref refnuc.Result, keepAll bool) SiteBatch {
	batch := SiteBatch{Contig: contig}
	for p := 0; p < len(ref.Predicted) && p < len(seqnuc); p++ {
		predicted := ref.Predicted[p]
		if predicted == nuc.Unknown {
			continue
		}
		counts := seqnuc[p]
		if counts.Coverage() == 0 {
			continue
		}
		mismatch := counts.At(predicted) != counts.Coverage()
		if !mismatch && !keepAll {
			continue
		}
		batch.Append(SiteRecord{
			Contig:    contig,
			Position:  startPos + uint64(p),
			Strand:    strand,
			RefNuc:    ref.Reference[p],
			PredNuc:   predicted,
			Sequenced: counts,
		})
	}
	return batch
}
