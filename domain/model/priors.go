package model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Prior is the density a stochastic node is drawn from.
type Prior interface {
	// LogPDF returns the log prior density at x, -Inf outside support.
	LogPDF(x float64) float64
	// InSupport reports whether x lies in the prior's support.
	InSupport(x float64) bool
	// Draw samples an initial value using the provided source.
	Draw(rnd *rand.Rand) float64
}

// NormalPrior is a Normal(Mu, Sigma) prior.
type NormalPrior struct {
	Mu    float64
	Sigma float64
}

func (p NormalPrior) LogPDF(x float64) float64 {
	return distuv.Normal{Mu: p.Mu, Sigma: p.Sigma}.LogProb(x)
}

func (p NormalPrior) InSupport(x float64) bool {
	return isFinite(x)
}

func (p NormalPrior) Draw(rnd *rand.Rand) float64 {
	return p.Mu + p.Sigma*rnd.NormFloat64()
}

// UniformPrior is a Uniform(Lower, Upper) prior.
type UniformPrior struct {
	Lower float64
	Upper float64
}

func (p UniformPrior) LogPDF(x float64) float64 {
	return distuv.Uniform{Min: p.Lower, Max: p.Upper}.LogProb(x)
}

func (p UniformPrior) InSupport(x float64) bool {
	return x > p.Lower && x < p.Upper
}

func (p UniformPrior) Draw(rnd *rand.Rand) float64 {
	return p.Lower + rnd.Float64()*(p.Upper-p.Lower)
}

// ShiftedExponentialPrior is Shift + Exponential(Rate). The normality
// parameter uses Shift = 1 so draws can never fall below 1, keeping the
// Student's-t likelihood valid.
type ShiftedExponentialPrior struct {
	Rate  float64
	Shift float64
}

func (p ShiftedExponentialPrior) LogPDF(x float64) float64 {
	if x <= p.Shift {
		return math.Inf(-1)
	}
	return distuv.Exponential{Rate: p.Rate}.LogProb(x - p.Shift)
}

func (p ShiftedExponentialPrior) InSupport(x float64) bool {
	return x > p.Shift
}

func (p ShiftedExponentialPrior) Draw(rnd *rand.Rand) float64 {
	return p.Shift + rnd.ExpFloat64()/p.Rate
}
