package strandutil_test

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomancy/reat/nuc"
	"github.com/biomancy/reat/strandutil"
)

func TestParseLibraryDesign(t *testing.T) {
	cases := map[string]strandutil.LibraryDesign{
		"s":   strandutil.Same,
		"f":   strandutil.Flip,
		"s/f": strandutil.Same1Flip2,
		"f/s": strandutil.Flip1Same2,
	}
	for s, want := range cases {
		got, err := strandutil.ParseLibraryDesign(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := strandutil.ParseLibraryDesign("bogus")
	assert.Error(t, err)
}

func TestDeduceSame(t *testing.T) {
	d := strandutil.NewDeducer(strandutil.Same)
	fwd := &sam.Record{Flags: 0}
	assert.Equal(t, nuc.Forward, d.Deduce(fwd))

	rev := &sam.Record{Flags: sam.Reverse}
	assert.Equal(t, nuc.Reverse, d.Deduce(rev))
}

func TestDeduceFlip(t *testing.T) {
	d := strandutil.NewDeducer(strandutil.Flip)
	fwd := &sam.Record{Flags: 0}
	assert.Equal(t, nuc.Reverse, d.Deduce(fwd))

	rev := &sam.Record{Flags: sam.Reverse}
	assert.Equal(t, nuc.Forward, d.Deduce(rev))
}

func TestDeduceSame1Flip2(t *testing.T) {
	d := strandutil.NewDeducer(strandutil.Same1Flip2)

	mate1Fwd := &sam.Record{Flags: sam.Paired | sam.Read1}
	assert.Equal(t, nuc.Forward, d.Deduce(mate1Fwd))

	mate2Fwd := &sam.Record{Flags: sam.Paired | sam.Read2}
	assert.Equal(t, nuc.Reverse, d.Deduce(mate2Fwd))

	mate2Rev := &sam.Record{Flags: sam.Paired | sam.Read2 | sam.Reverse}
	assert.Equal(t, nuc.Forward, d.Deduce(mate2Rev))
}

func TestDeduceFlip1Same2(t *testing.T) {
	d := strandutil.NewDeducer(strandutil.Flip1Same2)

	mate1Fwd := &sam.Record{Flags: sam.Paired | sam.Read1}
	assert.Equal(t, nuc.Reverse, d.Deduce(mate1Fwd))

	mate2Fwd := &sam.Record{Flags: sam.Paired | sam.Read2}
	assert.Equal(t, nuc.Forward, d.Deduce(mate2Fwd))
}

func TestLibraryDesignString(t *testing.T) {
	assert.Equal(t, "s", strandutil.Same.String())
	assert.Equal(t, "f/s", strandutil.Flip1Same2.String())
}
