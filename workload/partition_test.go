package workload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomancy/reat/genomics"
	"github.com/biomancy/reat/workload"
)

func roi(contig string, start, end uint64, name string) genomics.ROI {
	return genomics.ROI{Interval: genomics.Interval{Contig: contig, Start: start, End: end}, Name: name}
}

func TestPartitionClosesBinOnSize(t *testing.T) {
	rois := []genomics.ROI{
		roi("chr1", 0, 60, "a"),
		roi("chr1", 60, 120, "b"),
		roi("chr1", 120, 130, "c"),
	}
	workloads := workload.Partition(rois, 100, 0)
	require.Len(t, workloads, 2)
	assert.Equal(t, genomics.Interval{Contig: "chr1", Start: 0, End: 120}, workloads[0].Interval)
	assert.Len(t, workloads[0].Items, 2)
	assert.Equal(t, genomics.Interval{Contig: "chr1", Start: 120, End: 130}, workloads[1].Interval)
}

func TestPartitionClosesBinOnContigChange(t *testing.T) {
	rois := []genomics.ROI{
		roi("chr1", 0, 10, "a"),
		roi("chr2", 0, 10, "b"),
	}
	workloads := workload.Partition(rois, 1000, 0)
	require.Len(t, workloads, 2)
	assert.Equal(t, "chr1", workloads[0].Interval.Contig)
	assert.Equal(t, "chr2", workloads[1].Interval.Contig)
}

func TestPartitionWidensToMinIntervalSize(t *testing.T) {
	rois := []genomics.ROI{roi("chr1", 100, 105, "a")}
	workloads := workload.Partition(rois, 1000, 50)
	require.Len(t, workloads, 1)
	assert.Equal(t, uint64(50), workloads[0].Interval.Len())
}

func TestPartitionDeterministicOrder(t *testing.T) {
	rois := []genomics.ROI{
		roi("chr1", 50, 60, "b"),
		roi("chr1", 0, 10, "a"),
	}
	w1 := workload.Partition(rois, 5, 0)
	w2 := workload.Partition(rois, 5, 0)
	assert.Equal(t, w1, w2)
	require.Len(t, w1, 2)
	assert.Equal(t, uint64(0), w1[0].Interval.Start)
}

func TestPartitionEmpty(t *testing.T) {
	assert.Empty(t, workload.Partition(nil, 100, 0))
}
