// Package testkit generates deterministic synthetic two-sample data for
// tests and the CLI demo mode.
package testkit

import (
	"math/rand"

	"github.com/mkazmier/best-test/domain/model"
)

// DefaultConfig returns the control/treatment configuration used by the
// demo and the end-to-end tests: wide Normal prior on means, Uniform
// prior on spreads, nu prior mean 30.
func DefaultConfig() model.Config {
	return model.Config{
		LabelA:  "control",
		LabelB:  "treatment",
		MuMean:  0,
		MuSd:    10,
		SdLower: 0.1,
		SdUpper: 10,
		NuMean:  30,
	}
}

// NormalSample draws n values from Normal(mean, sd) with a fixed seed.
func NormalSample(seed int64, n int, mean, sd float64) []float64 {
	rnd := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + sd*rnd.NormFloat64()
	}
	return out
}

// ContaminatedNormal draws from Normal(mean, sd) with a fraction of
// values replaced by wide outliers, the heavy-tailed data the BEST
// model was designed for.
func ContaminatedNormal(seed int64, n int, mean, sd, outlierRate, outlierScale float64) []float64 {
	rnd := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		if rnd.Float64() < outlierRate {
			out[i] = mean + sd*outlierScale*rnd.NormFloat64()
		} else {
			out[i] = mean + sd*rnd.NormFloat64()
		}
	}
	return out
}
