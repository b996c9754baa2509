package readfilter_test

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"

	"github.com/biomancy/reat/readfilter"
)

func TestByFlags(t *testing.T) {
	f := readfilter.ByFlags{Include: sam.ProperPair, Exclude: sam.Unmapped | sam.Secondary}

	ok := &sam.Record{Flags: sam.ProperPair}
	assert.True(t, f.ReadOk(ok))

	missingInclude := &sam.Record{Flags: 0}
	assert.False(t, f.ReadOk(missingInclude))

	hasExclude := &sam.Record{Flags: sam.ProperPair | sam.Secondary}
	assert.False(t, f.ReadOk(hasExclude))

	assert.True(t, f.BaseOk(ok, 0))
}

func TestByQualityRejectsUnavailableMapQ(t *testing.T) {
	f := readfilter.ByQuality{MinMapQ: 20, MinBase: 10}

	unavailable := &sam.Record{MapQ: 255}
	assert.False(t, f.ReadOk(unavailable))

	tooLow := &sam.Record{MapQ: 10}
	assert.False(t, f.ReadOk(tooLow))

	good := &sam.Record{MapQ: 30}
	assert.True(t, f.ReadOk(good))

	assert.True(t, f.BaseOk(good, 10))
	assert.False(t, f.BaseOk(good, 9))
}

func TestAndRequiresEveryFilter(t *testing.T) {
	and := readfilter.NewAnd(
		readfilter.ByFlags{Include: 0, Exclude: sam.Unmapped},
		readfilter.ByQuality{MinMapQ: 20, MinBase: 20},
	)

	good := &sam.Record{MapQ: 40}
	assert.True(t, and.ReadOk(good))
	assert.True(t, and.BaseOk(good, 25))
	assert.False(t, and.BaseOk(good, 10))

	unmapped := &sam.Record{Flags: sam.Unmapped, MapQ: 40}
	assert.False(t, and.ReadOk(unmapped))
}
