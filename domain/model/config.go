package model

import (
	"math"
	"strings"

	"github.com/mkazmier/best-test/domain/core"
)

// Config holds the prior hyperparameters and sample labels for a
// Bayesian difference test. It is immutable after construction: every
// Run rebuilds the model graph from the same Config.
type Config struct {
	// LabelA and LabelB name the two compared samples. They are embedded
	// in the externally visible variable names (e.g. "control_mean").
	LabelA string
	LabelB string

	// MuMean and MuSd parameterize the Normal prior on both group means.
	MuMean float64
	MuSd   float64

	// SdLower and SdUpper bound the Uniform prior on both group spreads.
	SdLower float64
	SdUpper float64

	// NuMean is the mean of the Exponential prior on the normality
	// parameter before the +1 shift.
	NuMean float64
}

// Validate checks the configuration invariants.
// INVARIANTS:
// - SdLower < SdUpper
// - MuSd > 0
// - NuMean > 0
// - labels are non-empty and distinct
func (c Config) Validate() error {
	if strings.TrimSpace(c.LabelA) == "" {
		return core.NewConfigError("label_a", "must be non-empty")
	}
	if strings.TrimSpace(c.LabelB) == "" {
		return core.NewConfigError("label_b", "must be non-empty")
	}
	if c.LabelA == c.LabelB {
		return core.NewConfigError("label_b", "labels must be distinct")
	}
	if !isFinite(c.MuMean) {
		return core.NewConfigError("mu_mean", "must be finite")
	}
	if !(c.MuSd > 0) || !isFinite(c.MuSd) {
		return core.NewConfigError("mu_sd", "must be > 0")
	}
	if !isFinite(c.SdLower) || !isFinite(c.SdUpper) {
		return core.NewConfigError("sd_bounds", "must be finite")
	}
	if !(c.SdLower < c.SdUpper) {
		return core.NewConfigError("sd_bounds", "sd_lower must be < sd_upper")
	}
	if !(c.SdLower > 0) {
		return core.NewConfigError("sd_lower", "must be > 0")
	}
	if !(c.NuMean > 0) || !isFinite(c.NuMean) {
		return core.NewConfigError("nu_mean", "must be > 0")
	}
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
