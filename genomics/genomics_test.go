package genomics_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/nuc"
)

func TestIntervalValidateAndOverlaps(t *testing.T) {
	iv := genomics.Interval{Contig: "chr1", Start: 10, End: 20}
	require.NoError(t, iv.Validate())
	assert.Equal(t, uint64(10), iv.Len())
	assert.False(t, iv.Empty())

	bad := genomics.Interval{Contig: "chr1", Start: 20, End: 10}
	assert.Error(t, bad.Validate())

	other := genomics.Interval{Contig: "chr1", Start: 15, End: 25}
	assert.True(t, iv.Overlaps(other))
	disjoint := genomics.Interval{Contig: "chr1", Start: 20, End: 30}
	assert.False(t, iv.Overlaps(disjoint))
	otherContig := genomics.Interval{Contig: "chr2", Start: 10, End: 20}
	assert.False(t, iv.Overlaps(otherContig))
}

func TestROISubintervalsDefaultsToWholeSpan(t *testing.T) {
	roi := genomics.ROI{Interval: genomics.Interval{Contig: "chr1", Start: 100, End: 200}, Name: "r1"}
	subs := roi.Subintervals()
	require.Len(t, subs, 1)
	assert.Equal(t, genomics.Range{Start: 0, End: 100}, subs[0])
}

func TestROIValidateBlocks(t *testing.T) {
	roi := genomics.ROI{
		Interval: genomics.Interval{Contig: "chr1", Start: 0, End: 100},
		Name:     "r1",
		Blocks:   []genomics.Range{{Start: 0, End: 10}, {Start: 5, End: 15}},
	}
	assert.Error(t, roi.Validate(), "overlapping blocks must be rejected")

	roi.Blocks = []genomics.Range{{Start: 0, End: 10}, {Start: 10, End: 20}}
	assert.NoError(t, roi.Validate())

	roi.Blocks = []genomics.Range{{Start: 90, End: 110}}
	assert.Error(t, roi.Validate(), "block extending past the interval must be rejected")
}

func TestSortROIs(t *testing.T) {
	rois := []genomics.ROI{
		{Interval: genomics.Interval{Contig: "chr2", Start: 0, End: 10}, Name: "b"},
		{Interval: genomics.Interval{Contig: "chr1", Start: 50, End: 60}, Name: "c"},
		{Interval: genomics.Interval{Contig: "chr1", Start: 0, End: 10}, Name: "a"},
	}
	genomics.SortROIs(rois)
	assert.Equal(t, []string{"a", "c", "b"}, []string{rois[0].Name, rois[1].Name, rois[2].Name})
}

func TestParseBEDRequiredColumnsOnly(t *testing.T) {
	data := "chr1\t100\t200\nchr1\t300\t400\tmyname\n"
	rois, err := genomics.ParseBED(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rois, 2)
	assert.Equal(t, "chr1", rois[0].Interval.Contig)
	assert.Equal(t, uint64(100), rois[0].Interval.Start)
	assert.Equal(t, uint64(200), rois[0].Interval.End)
	assert.Equal(t, "myname", rois[1].Name)
}

func TestParseBEDWithBlocks(t *testing.T) {
	// One ROI spanning 0-100 with two blocks: [0,10) and [20,30).
	data := "chr1\t0\t100\tgene1\t0\t+\t0\t100\t0\t2\t10,10,\t0,20,\n"
	rois, err := genomics.ParseBED(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rois, 1)
	require.Len(t, rois[0].Blocks, 2)
	assert.Equal(t, genomics.Range{Start: 0, End: 10}, rois[0].Blocks[0])
	assert.Equal(t, genomics.Range{Start: 20, End: 30}, rois[0].Blocks[1])
}

func TestParseBEDRejectsTooFewColumns(t *testing.T) {
	_, err := genomics.ParseBED(strings.NewReader("chr1\t100\n"))
	assert.Error(t, err)
}

func TestParseBEDSkipsCommentsAndBlankLines(t *testing.T) {
	data := "# comment\n\nchr1\t0\t10\n"
	rois, err := genomics.ParseBED(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rois, 1)
}

func TestParseGFF3RetainsOnlyForwardReverse(t *testing.T) {
	data := strings.Join([]string{
		"##gff-version 3",
		"chr1\tsrc\tgene\t1\t100\t.\t+\t.\tID=g1",
		"chr1\tsrc\tgene\t101\t200\t.\t-\t.\tID=g2",
		"chr1\tsrc\tgene\t201\t300\t.\t.\t.\tID=g3",
	}, "\n") + "\n"

	features, err := genomics.ParseGFF3(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, nuc.Forward, features[0].Strand)
	assert.Equal(t, uint64(0), features[0].Interval.Start)
	assert.Equal(t, uint64(100), features[0].Interval.End)

	assert.Equal(t, nuc.Reverse, features[1].Strand)
	assert.Equal(t, uint64(100), features[1].Interval.Start)
	assert.Equal(t, uint64(200), features[1].Interval.End)
}
