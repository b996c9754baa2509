package rerr_test

import (
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/assert"

	"github.com/biomancy/reat/rerr"
)

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, rerr.Wrap(nil, rerr.IoError, "unreachable"))
}

func TestIsMatchesKind(t *testing.T) {
	err := rerr.Wrap(stderrors.New("disk full"), rerr.IoError, "opening bam")
	assert.True(t, rerr.Is(err, rerr.IoError))
	assert.False(t, rerr.Is(err, rerr.ConfigError))
}

func TestIsFalseForPlainError(t *testing.T) {
	assert.False(t, rerr.Is(stderrors.New("boom"), rerr.DataError))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "config error", rerr.ConfigError.String())
	assert.Equal(t, "index mismatch", rerr.IndexMismatch.String())
}
