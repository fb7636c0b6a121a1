package algorithm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for typ, name := range names {
		got, err := ParseType(name)
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	got, err := ParseType(" X16R ")
	require.NoError(t, err)
	assert.Equal(t, X16R, got)

	got, err = ParseType("ethash")
	assert.Error(t, err)
	assert.Equal(t, INVALID, got)
}

func TestAlgorithmTypes(t *testing.T) {
	single := New("plugin", X16R)
	assert.Equal(t, X16R, single.FirstAlgorithmType())
	assert.Equal(t, INVALID, single.SecondAlgorithmType())
	assert.True(t, single.Enabled)
	assert.Equal(t, "x16r", single.String())

	dual := New("plugin", Skunk, X16S)
	assert.Equal(t, Skunk, dual.FirstAlgorithmType())
	assert.Equal(t, X16S, dual.SecondAlgorithmType())
	assert.Equal(t, "skunk+x16s", dual.String())

	assert.Equal(t, INVALID, Algorithm{}.FirstAlgorithmType())
	assert.Equal(t, "invalid", INVALID.String())
}

func TestNewCopiesIDs(t *testing.T) {
	ids := []Type{X16R, Skunk}
	algo := New("plugin", ids...)
	ids[0] = Hex
	assert.Equal(t, X16R, algo.FirstAlgorithmType())
}
