package output_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/mismatches"
	"github.com/biomancy/reat/nuc"
	"github.com/biomancy/reat/output"
)

func TestWriteLoci(t *testing.T) {
	ctx := vcontext.Background()
	path := filepath.Join(t.TempDir(), "loci.tsv")

	records := []mismatches.SiteRecord{
		{Contig: "chr1", Position: 99, Strand: nuc.Forward, RefNuc: nuc.A, Sequenced: nuc.Counts{A: 9, T: 1}},
	}
	require.NoError(t, output.WriteLoci(ctx, path, records))

	content, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"chr\tposition\tstrand\treference\t#A\t#C\t#G\t#T\n"+
			"chr1\t100\t+\tA\t9\t0\t0\t1\n",
		string(content))
}

func TestWriteRegionsSkipsBelowCoverageThreshold(t *testing.T) {
	ctx := vcontext.Background()
	path := filepath.Join(t.TempDir(), "regions.tsv")

	var m nuc.Matrix
	m.AddN(nuc.A, nuc.A, 9)
	m.AddN(nuc.A, nuc.T, 1)

	records := []mismatches.ROIRecord{
		{ROI: genomics.ROI{Interval: genomics.Interval{Contig: "chr1", Start: 0, End: 10}, Name: "roi1"},
			Strand: nuc.Forward, Coverage: 10, Mismatches: m},
		{ROI: genomics.ROI{Interval: genomics.Interval{Contig: "chr1", Start: 20, End: 30}, Name: "roi2"},
			Strand: nuc.Forward, Coverage: 2, Mismatches: nuc.Matrix{}},
	}
	require.NoError(t, output.WriteRegions(ctx, path, records, 5))

	content, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	lines := string(content)
	assert.Contains(t, lines, "roi1")
	assert.NotContains(t, lines, "roi2")
}
