package nuc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biomancy/reat/nuc"
)

func TestFromASCIIByte(t *testing.T) {
	assert.Equal(t, nuc.A, nuc.FromASCIIByte('a'))
	assert.Equal(t, nuc.A, nuc.FromASCIIByte('A'))
	assert.Equal(t, nuc.T, nuc.FromASCIIByte('t'))
	assert.Equal(t, nuc.T, nuc.FromASCIIByte('u'))
	assert.Equal(t, nuc.Unknown, nuc.FromASCIIByte('N'))
	assert.Equal(t, nuc.Unknown, nuc.FromASCIIByte('R'))
}

func TestCountsMostFreqTieBreak(t *testing.T) {
	// All channels equal: A wins.
	c := nuc.Counts{A: 5, C: 5, G: 5, T: 5}
	n, cnt := c.MostFreq()
	assert.Equal(t, nuc.A, n)
	assert.Equal(t, uint32(5), cnt)

	// C and G tie for the max, but T is strictly lower: C wins since it's
	// the lowest-indexed channel among the tied maxima.
	c = nuc.Counts{A: 1, C: 9, G: 9, T: 3}
	n, _ = c.MostFreq()
	assert.Equal(t, nuc.C, n)

	c = nuc.Counts{A: 1, C: 2, G: 3, T: 9}
	n, _ = c.MostFreq()
	assert.Equal(t, nuc.T, n)
}

func TestCountsCoverageAndAdd(t *testing.T) {
	var c nuc.Counts
	for i := 0; i < 9; i++ {
		c.Add(nuc.A)
	}
	c.Add(nuc.T)
	assert.Equal(t, uint32(10), c.Coverage())
	assert.Equal(t, uint32(9), c.At(nuc.A))
	assert.Equal(t, uint32(1), c.At(nuc.T))
	// Unknown never contributes.
	c.Add(nuc.Unknown)
	assert.Equal(t, uint32(10), c.Coverage())
}

func TestMatrixCoverageMismatches(t *testing.T) {
	var m nuc.Matrix
	m.AddN(nuc.A, nuc.A, 9)
	m.AddN(nuc.A, nuc.T, 1)
	assert.Equal(t, uint64(10), m.Coverage())
	assert.Equal(t, uint64(9), m.Matches())
	assert.Equal(t, uint64(1), m.Mismatches())
}

func TestMatrixAddCounts(t *testing.T) {
	var m nuc.Matrix
	m.AddCounts(nuc.T, nuc.Counts{A: 0, C: 1, G: 0, T: 9})
	assert.Equal(t, uint64(10), m.Coverage())
	assert.Equal(t, uint64(9), m.Matches())
	assert.Equal(t, uint32(1), m[nuc.T][nuc.C])
}

func TestStrandedIndexing(t *testing.T) {
	s := nuc.NewStranded(1, 2, 3)
	assert.Equal(t, 1, s.At(nuc.Forward))
	assert.Equal(t, 2, s.At(nuc.Reverse))
	assert.Equal(t, 3, s.At(nuc.StrandUnknown))

	s.Set(nuc.Forward, 11)
	assert.Equal(t, 11, s.At(nuc.Forward))
}

func TestStrandASCII(t *testing.T) {
	assert.Equal(t, byte('+'), nuc.Forward.ASCII())
	assert.Equal(t, byte('-'), nuc.Reverse.ASCII())
	assert.Equal(t, byte('.'), nuc.StrandUnknown.ASCII())
	assert.Equal(t, nuc.Reverse, nuc.Forward.Invert())
}
