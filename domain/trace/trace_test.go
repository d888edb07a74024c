package trace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazmier/best-test/domain/core"
)

func twoChainTrace(t *testing.T) *Trace {
	t.Helper()
	tr := New(core.NewRunID(), 42, []string{"x", "y"})
	tr.Chains = []Chain{
		{
			Index: 0,
			Draws: map[string][]float64{
				"x": {1, 2, 3},
				"y": {4, 5, 6},
			},
		},
		{
			Index: 1,
			Draws: map[string][]float64{
				"x": {7, 8, 9},
				"y": {10, 11, 12},
			},
		},
	}
	require.NoError(t, tr.Validate())
	return tr
}

func TestTrace_ColumnConcatenatesChains(t *testing.T) {
	tr := twoChainTrace(t)

	col, err := tr.Column("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 7, 8, 9}, col)

	assert.Equal(t, 6, tr.Len())
}

func TestTrace_UnknownVariable(t *testing.T) {
	tr := twoChainTrace(t)

	_, err := tr.Column("z")
	assert.True(t, errors.Is(err, core.ErrVariableNotFound))

	_, err = tr.ChainColumns("z")
	assert.True(t, errors.Is(err, core.ErrVariableNotFound))
}

func TestTrace_ValidateCatchesRaggedColumns(t *testing.T) {
	tr := New(core.NewRunID(), 1, []string{"x", "y"})
	tr.Chains = []Chain{
		{Index: 0, Draws: map[string][]float64{"x": {1, 2}, "y": {3}}},
	}
	assert.Error(t, tr.Validate())
}

func TestTrace_ValidateCatchesMissingVariable(t *testing.T) {
	tr := New(core.NewRunID(), 1, []string{"x", "y"})
	tr.Chains = []Chain{
		{Index: 0, Draws: map[string][]float64{"x": {1, 2}}},
	}
	assert.Error(t, tr.Validate())
}

func TestChain_AcceptanceRate(t *testing.T) {
	c := Chain{Accepted: 40, Steps: 100}
	assert.InDelta(t, 0.4, c.AcceptanceRate(), 1e-12)
	assert.Zero(t, Chain{}.AcceptanceRate())
}
