package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazmier/best-test/adapters/sampler"
	"github.com/mkazmier/best-test/domain/core"
	"github.com/mkazmier/best-test/domain/model"
	"github.com/mkazmier/best-test/domain/trace"
	"github.com/mkazmier/best-test/internal/testkit"
	"github.com/mkazmier/best-test/ports"
)

func newTest(t *testing.T) *DifferenceTest {
	t.Helper()
	dt, err := New(testkit.DefaultConfig(), Deps{Sampler: sampler.NewMetropolis()})
	require.NoError(t, err)
	return dt
}

// failingSampler always reports a sampling error.
type failingSampler struct{}

func (failingSampler) Sample(context.Context, *model.Model, ports.SampleOptions) (*trace.Trace, error) {
	return nil, core.NewSamplingError(fmt.Errorf("boom"))
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testkit.DefaultConfig()
	cfg.MuSd = -1

	_, err := New(cfg, Deps{Sampler: sampler.NewMetropolis()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
}

func TestNew_RequiresSampler(t *testing.T) {
	_, err := New(testkit.DefaultConfig(), Deps{})
	require.Error(t, err)
}

func TestModelVariables_AvailableBeforeRun(t *testing.T) {
	dt := newTest(t)

	vars := dt.ModelVariables()
	require.Len(t, vars, 7)
	assert.Equal(t, []string{
		"control_mean", "treatment_mean",
		"control_sd", "treatment_sd",
		"nu",
		"difference_of_means", "difference_of_sds",
	}, vars)
}

func TestReporting_FailsBeforeRun(t *testing.T) {
	dt, err := New(testkit.DefaultConfig(), Deps{Sampler: sampler.NewMetropolis()})
	require.NoError(t, err)

	_, err = dt.Trace()
	assert.True(t, core.IsNoTraceError(err))

	_, err = dt.Model()
	assert.True(t, errors.Is(err, core.ErrNoModel))

	_, err = dt.Summary(nil)
	assert.True(t, core.IsNoTraceError(err))

	err = dt.PlotPosterior(nil, nil)
	assert.True(t, core.IsNoTraceError(err))

	err = dt.ForestPlot(nil)
	assert.True(t, core.IsNoTraceError(err))

	err = dt.TracePlot()
	assert.True(t, core.IsNoTraceError(err))
}

func TestRun_RejectsInvalidObserved(t *testing.T) {
	dt := newTest(t)
	good := testkit.NormalSample(1, 20, 0, 1)

	tests := []struct {
		name string
		a, b []float64
	}{
		{"empty a", nil, good},
		{"empty b", good, nil},
		{"nan in a", []float64{1, math.NaN(), 3}, good},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := dt.Run(context.Background(), tc.a, tc.b, RunOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidObserved))

			_, err = dt.Trace()
			assert.True(t, core.IsNoTraceError(err))
		})
	}
}

func TestRun_RejectsNegativeOptions(t *testing.T) {
	dt := newTest(t)
	a := testkit.NormalSample(1, 20, 0, 1)
	b := testkit.NormalSample(2, 20, 1, 1)

	err := dt.Run(context.Background(), a, b, RunOptions{NSamples: -5})
	require.Error(t, err)

	err = dt.Run(context.Background(), a, b, RunOptions{Parallelism: -1})
	require.Error(t, err)
}

func TestRun_SeparatedGroups(t *testing.T) {
	dt := newTest(t)
	a := testkit.NormalSample(11, 50, 0, 1)
	b := testkit.NormalSample(12, 50, 3, 1)

	err := dt.Run(context.Background(), a, b, RunOptions{NSamples: 2000, Parallelism: 2, Seed: 42})
	require.NoError(t, err)

	table, err := dt.Summary([]string{"difference_of_means"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	// Group means are 0 and 3 so the 95% interval on the difference
	// sits well below zero.
	row := table.Rows[0]
	assert.Less(t, row.HPDUpper, 0.0)
	assert.InDelta(t, -3, row.Mean, 0.8)
}

func TestRun_IdenticalGroupsCoverZero(t *testing.T) {
	dt := newTest(t)
	a := testkit.NormalSample(21, 60, 5, 2)
	b := testkit.NormalSample(22, 60, 5, 2)

	err := dt.Run(context.Background(), a, b, RunOptions{NSamples: 2000, Parallelism: 2, Seed: 7})
	require.NoError(t, err)

	table, err := dt.Summary([]string{"difference_of_means"})
	require.NoError(t, err)
	row := table.Rows[0]
	assert.Less(t, row.HPDLower, 0.0)
	assert.Greater(t, row.HPDUpper, 0.0)
}

func TestRun_SecondRunReplacesTrace(t *testing.T) {
	dt := newTest(t)
	a := testkit.NormalSample(31, 30, 0, 1)
	b := testkit.NormalSample(32, 30, 1, 1)

	require.NoError(t, dt.Run(context.Background(), a, b, RunOptions{NSamples: 200, Seed: 1}))
	first, err := dt.Trace()
	require.NoError(t, err)

	require.NoError(t, dt.Run(context.Background(), a, b, RunOptions{NSamples: 200, Seed: 2}))
	second, err := dt.Trace()
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.NotSame(t, first, second)
}

func TestRun_FailureKeepsPreviousTrace(t *testing.T) {
	metro := sampler.NewMetropolis()
	dt, err := New(testkit.DefaultConfig(), Deps{Sampler: metro})
	require.NoError(t, err)

	a := testkit.NormalSample(41, 30, 0, 1)
	b := testkit.NormalSample(42, 30, 1, 1)
	require.NoError(t, dt.Run(context.Background(), a, b, RunOptions{NSamples: 200, Seed: 1}))
	before, err := dt.Trace()
	require.NoError(t, err)

	dt.deps.Sampler = failingSampler{}
	err = dt.Run(context.Background(), a, b, RunOptions{NSamples: 200, Seed: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSampling))

	after, err := dt.Trace()
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestSummary_RejectsUnknownVariable(t *testing.T) {
	dt := newTest(t)
	a := testkit.NormalSample(51, 30, 0, 1)
	b := testkit.NormalSample(52, 30, 1, 1)
	require.NoError(t, dt.Run(context.Background(), a, b, RunOptions{NSamples: 200, Seed: 1}))

	_, err := dt.Summary([]string{"not_a_variable"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrVariableNotFound))
}

func TestSummary_DefaultsToAllVariablesInOrder(t *testing.T) {
	dt := newTest(t)
	a := testkit.NormalSample(61, 30, 0, 1)
	b := testkit.NormalSample(62, 30, 1, 1)
	require.NoError(t, dt.Run(context.Background(), a, b, RunOptions{NSamples: 200, Seed: 1}))

	table, err := dt.Summary(nil)
	require.NoError(t, err)
	require.Len(t, table.Rows, 7)
	for i, name := range dt.ModelVariables() {
		assert.Equal(t, name, table.Rows[i].Variable)
	}
}

func TestRun_DefaultsApplied(t *testing.T) {
	dt := newTest(t)
	a := testkit.NormalSample(71, 20, 0, 1)
	b := testkit.NormalSample(72, 20, 0, 1)

	// Zero-value options mean 2000 draws over a single chain.
	require.NoError(t, dt.Run(context.Background(), a, b, RunOptions{Seed: 5}))
	tr, err := dt.Trace()
	require.NoError(t, err)
	assert.Len(t, tr.Chains, 1)
	assert.Equal(t, 2000, tr.Len())

	m, err := dt.Model()
	require.NoError(t, err)
	assert.Len(t, m.Stochastics, 5)
	assert.Len(t, m.Likelihoods, 2)
	assert.Len(t, m.Deterministics, 2)
}
