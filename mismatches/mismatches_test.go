package mismatches_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/nuc"
	"github.com/biomancy/reat/refnuc"
	"github.com/biomancy/reat/rpileup"
)

func TestBuilderBuildROIUnstranded(t *testing.T) {
	roi := genomics.ROI{Interval: genomics.Interval{Contig: "chr1", Start: 100, End: 104}, Name: "r1"}
	item := rpileup.AggregatedNucCountsItem{
		Unstranded: []nuc.Counts{{T: 9}, {A: 1}, {C: 1, A: 1}, {G: 2}},
	}
	ref := refnuc.Result{
		Reference: []nuc.Nucleotide{nuc.C, nuc.A, nuc.A, nuc.Unknown},
		Predicted: []nuc.Nucleotide{nuc.C, nuc.A, nuc.A, nuc.Unknown},
	}

	b := mismatches.NewBuilder(nil)
	records := b.BuildROI(roi, item, ref)
	require.Len(t, records, 1)
	rec := records[0]

	assert.Equal(t, nuc.StrandUnknown, rec.Strand)
	assert.Equal(t, uint32(1), rec.Masked) // position 3: predicted Unknown
	assert.Equal(t, uint32(9+1+2), rec.Coverage)
	assert.Equal(t, uint32(9), rec.Mismatches[nuc.C][nuc.T])
	assert.Equal(t, uint32(2), rec.Mismatches[nuc.A][nuc.A])
	assert.Equal(t, uint32(1), rec.Mismatches[nuc.A][nuc.C])
}

func TestBuilderBuildROIStrandedProducesTwoRecords(t *testing.T) {
	roi := genomics.ROI{Interval: genomics.Interval{Contig: "chr1", Start: 0, End: 1}, Name: "r1"}
	item := rpileup.AggregatedNucCountsItem{
		Forward: []nuc.Counts{{T: 1}},
		Reverse: []nuc.Counts{{C: 1}},
	}
	ref := refnuc.Result{Reference: []nuc.Nucleotide{nuc.C}, Predicted: []nuc.Nucleotide{nuc.C}}

	b := mismatches.NewBuilder(nil)
	records := b.BuildROI(roi, item, ref)
	require.Len(t, records, 2)

	byStrand := map[nuc.Strand]mismatches.ROIRecord{}
	for _, r := range records {
		byStrand[r.Strand] = r
	}
	assert.Equal(t, uint32(1), byStrand[nuc.Forward].Mismatches[nuc.C][nuc.T])
	assert.Equal(t, uint32(1), byStrand[nuc.Reverse].Mismatches[nuc.C][nuc.C])
}

func TestByMismatchesThreshold(t *testing.T) {
	var m nuc.Matrix
	m.AddN(nuc.A, nuc.A, 7)
	m.AddN(nuc.A, nuc.G, 3)
	rec := mismatches.ROIRecord{Coverage: 10, Mismatches: m}

	accept := mismatches.ByMismatches{MinCoverage: 5, MinMismatches: 2, MinFreq: 0.2}
	assert.True(t, accept.Accept(rec))

	reject := mismatches.ByMismatches{MinCoverage: 5, MinMismatches: 4, MinFreq: 0.2}
	assert.False(t, reject.Accept(rec))
}

func TestAndRetainersRejectsWhenAnyRetainerRejects(t *testing.T) {
	a := genomics.ROI{Interval: genomics.Interval{Contig: "chr1", Start: 0, End: 10}, Name: "A"}
	rec := mismatches.ROIRecord{ROI: a, Coverage: 10}

	onlyList := mismatches.AndRetainers{mismatches.NewRetainROIFromList([]genomics.ROI{a})}
	assert.True(t, onlyList.Accept(rec))

	strict := mismatches.AndRetainers{
		mismatches.NewRetainROIFromList([]genomics.ROI{a}),
		mismatches.ByMismatches{MinCoverage: 100},
	}
	assert.False(t, strict.Accept(rec))
}

func TestAndRetainersEmptyAcceptsEverything(t *testing.T) {
	var none mismatches.AndRetainers
	assert.True(t, none.Accept(mismatches.ROIRecord{}))
}

func TestRetainROIFromList(t *testing.T) {
	a := genomics.ROI{Interval: genomics.Interval{Contig: "chr1", Start: 0, End: 10}, Name: "A"}
	bROI := genomics.ROI{Interval: genomics.Interval{Contig: "chr1", Start: 20, End: 30}, Name: "B"}
	retain := mismatches.NewRetainROIFromList([]genomics.ROI{a})

	assert.True(t, retain.Accept(mismatches.ROIRecord{ROI: a}))
	assert.False(t, retain.Accept(mismatches.ROIRecord{ROI: bROI}))
}

func TestRetainSitesFromIntervalsOverlap(t *testing.T) {
	retain := mismatches.NewRetainSitesFromIntervals([]genomics.Interval{
		{Contig: "chr1", Start: 100, End: 200},
		{Contig: "chr1", Start: 500, End: 600},
	})

	got := retain.Overlapping("chr1", 150, 550)
	require.Len(t, got, 2)
	assert.Equal(t, genomics.Range{Start: 150, End: 200}, got[0])
	assert.Equal(t, genomics.Range{Start: 500, End: 550}, got[1])

	assert.Empty(t, retain.Overlapping("chr2", 0, 1000))
}

func TestROIBatchFilterAndRestrand(t *testing.T) {
	var batch mismatches.ROIBatch
	batch.Contig = "chr1"
	batch.Append(mismatches.ROIRecord{ROI: genomics.ROI{Name: "a"}, Strand: nuc.StrandUnknown})
	batch.Append(mismatches.ROIRecord{ROI: genomics.ROI{Name: "b"}, Strand: nuc.StrandUnknown})

	filtered := batch.Filter([]bool{true, false})
	require.Equal(t, 1, filtered.Len())
	assert.Equal(t, "a", filtered.At(0).ROI.Name)

	fwd, rev, unk := batch.Restrand([]nuc.Strand{nuc.Forward, nuc.Reverse})
	assert.Equal(t, 1, fwd.Len())
	assert.Equal(t, 1, rev.Len())
	assert.Equal(t, 0, unk.Len())
}

func TestBuildSiteOnlyEmitsKnownMismatches(t *testing.T) {
	ref := refnuc.Result{
		Reference: []nuc.Nucleotide{nuc.A, nuc.C, nuc.Unknown},
		Predicted: []nuc.Nucleotide{nuc.A, nuc.C, nuc.Unknown},
	}
	seqnuc := []nuc.Counts{{A: 10}, {A: 3, C: 7}, {G: 5}}

	batch := mismatches.BuildSite("chr1", 100, nuc.StrandUnknown, seqnuc, ref, false)
	require.Equal(t, 1, batch.Len())
	assert.Equal(t, uint64(101), batch.Positions[0])
}

func TestBuildSiteKeepAllEmitsMatches(t *testing.T) {
	ref := refnuc.Result{Reference: []nuc.Nucleotide{nuc.A}, Predicted: []nuc.Nucleotide{nuc.A}}
	seqnuc := []nuc.Counts{{A: 10}}

	batch := mismatches.BuildSite("chr1", 0, nuc.StrandUnknown, seqnuc, ref, true)
	require.Equal(t, 1, batch.Len())
}
