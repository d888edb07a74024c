package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecision_ExactTransform(t *testing.T) {
	for _, sd := range []float64{0.1, 0.5, 1, 2, 3.7, 10, 123.45} {
		assert.InEpsilon(t, 1/(sd*sd), Precision(sd), 1e-12, "sd=%v", sd)
	}
}

func buildTestModel(t *testing.T, observedA, observedB []float64) *Model {
	t.Helper()
	b := NewBuilder()
	b.Normal("a_mean", 0, 10)
	b.Normal("b_mean", 0, 10)
	b.Uniform("a_sd", 0.1, 10)
	b.Uniform("b_sd", 0.1, 10)
	b.ShiftedExponential("nu", 1.0/30, 1)
	b.StudentT("data_a", "nu", "a_mean", "a_sd", observedA)
	b.StudentT("data_b", "nu", "b_mean", "b_sd", observedB)
	b.Difference("difference_of_means", "a_mean", "b_mean")
	b.Difference("difference_of_sds", "a_sd", "b_sd")

	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestBuilder_DuplicateName(t *testing.T) {
	b := NewBuilder()
	b.Normal("x", 0, 1)
	b.Uniform("x", 0, 1)
	_, err := b.Build()
	assert.Error(t, err)
}

func TestBuilder_UndeclaredReference(t *testing.T) {
	b := NewBuilder()
	b.Normal("mean", 0, 1)
	b.Uniform("sd", 0.1, 10)
	b.StudentT("data", "nu", "mean", "sd", []float64{1, 2, 3})
	_, err := b.Build()
	assert.Error(t, err)
}

func TestBuilder_EmptyObserved(t *testing.T) {
	b := NewBuilder()
	b.Normal("mean", 0, 1)
	b.Uniform("sd", 0.1, 10)
	b.ShiftedExponential("nu", 1.0/30, 1)
	b.StudentT("data", "nu", "mean", "sd", nil)
	_, err := b.Build()
	assert.Error(t, err)
}

func TestModel_LogPosteriorFiniteInsideSupport(t *testing.T) {
	m := buildTestModel(t, []float64{-0.3, 0.1, 0.5}, []float64{2.7, 3.1, 3.4})

	vals := map[string]float64{
		"a_mean": 0, "b_mean": 3,
		"a_sd": 1, "b_sd": 1,
		"nu": 31,
	}
	lp := m.LogPosterior(vals)
	assert.False(t, math.IsInf(lp, 0))
	assert.False(t, math.IsNaN(lp))
}

func TestModel_LogPosteriorOutsideSupport(t *testing.T) {
	m := buildTestModel(t, []float64{0}, []float64{1})

	cases := []map[string]float64{
		{"a_mean": 0, "b_mean": 0, "a_sd": 0.05, "b_sd": 1, "nu": 31}, // sd below lower bound
		{"a_mean": 0, "b_mean": 0, "a_sd": 1, "b_sd": 11, "nu": 31},   // sd above upper bound
		{"a_mean": 0, "b_mean": 0, "a_sd": 1, "b_sd": 1, "nu": 0.5},   // nu below shift
	}
	for i, vals := range cases {
		assert.True(t, math.IsInf(m.LogPosterior(vals), -1), "case %d", i)
	}
}

func TestModel_LikelihoodPullsPosterior(t *testing.T) {
	// The posterior at the generating parameters should beat a
	// distant point.
	m := buildTestModel(t, []float64{-0.1, 0, 0.1, 0.2}, []float64{2.9, 3.0, 3.1, 3.2})

	good := map[string]float64{"a_mean": 0.05, "b_mean": 3.05, "a_sd": 0.2, "b_sd": 0.2, "nu": 31}
	bad := map[string]float64{"a_mean": 5, "b_mean": -5, "a_sd": 0.2, "b_sd": 0.2, "nu": 31}
	assert.Greater(t, m.LogPosterior(good), m.LogPosterior(bad))
}

func TestDeterministic_Value(t *testing.T) {
	d := Deterministic{Name: "difference_of_means", Minuend: "a_mean", Subtrahend: "b_mean"}
	vals := map[string]float64{"a_mean": 2.5, "b_mean": 1.0}
	assert.Equal(t, 1.5, d.Value(vals))
}

func TestShiftedExponentialPrior_SupportAboveShift(t *testing.T) {
	p := ShiftedExponentialPrior{Rate: 1.0 / 30, Shift: 1}
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		draw := p.Draw(rnd)
		require.Greater(t, draw, 1.0)
	}
	assert.True(t, math.IsInf(p.LogPDF(1), -1))
	assert.True(t, math.IsInf(p.LogPDF(0.99), -1))
	assert.False(t, math.IsInf(p.LogPDF(1.01), -1))
}

func TestUniformPrior_DrawWithinBounds(t *testing.T) {
	p := UniformPrior{Lower: 0.1, Upper: 10}
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		x := p.Draw(rnd)
		require.True(t, p.InSupport(x))
	}
}
