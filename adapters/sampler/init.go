package sampler

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/mkazmier/best-test/domain/model"
)

// maxInitAttempts bounds the prior-draw retries when searching for a
// starting point with finite log posterior.
const maxInitAttempts = 100

// initialState picks a chain starting point. Location and spread
// parameters referenced by a likelihood start at the observed sample's
// empirical moments (jittered so chains differ); everything else starts
// at a prior draw. Retries from the priors if the posterior is not
// finite at the chosen point.
func initialState(m *model.Model, rnd *rand.Rand) (map[string]float64, float64, error) {
	for attempt := 0; attempt < maxInitAttempts; attempt++ {
		vals := make(map[string]float64, len(m.Stochastics))
		priors := make(map[string]model.Prior, len(m.Stochastics))
		for _, s := range m.Stochastics {
			vals[s.Name] = s.Prior.Draw(rnd)
			priors[s.Name] = s.Prior
		}

		if attempt < maxInitAttempts/2 {
			for _, l := range m.Likelihoods {
				mean := stat.Mean(l.Observed, nil)
				sd := math.Sqrt(stat.Variance(l.Observed, nil))

				jm := mean + 0.05*(math.Abs(mean)+1)*rnd.NormFloat64()
				if priors[l.MeanVar].InSupport(jm) {
					vals[l.MeanVar] = jm
				}
				js := sd * math.Exp(0.05*rnd.NormFloat64())
				if priors[l.SpreadVar].InSupport(js) {
					vals[l.SpreadVar] = js
				}
			}
		}

		lp := m.LogPosterior(vals)
		if !math.IsInf(lp, -1) && !math.IsNaN(lp) {
			return vals, lp, nil
		}
	}
	return nil, 0, fmt.Errorf("no finite starting point found after %d attempts", maxInitAttempts)
}

// initialScales picks per-variable proposal scales from the prior shape.
// Tuning adapts them afterwards.
func initialScales(m *model.Model) map[string]float64 {
	scales := make(map[string]float64, len(m.Stochastics))
	for _, s := range m.Stochastics {
		switch p := s.Prior.(type) {
		case model.NormalPrior:
			scales[s.Name] = p.Sigma / 10
		case model.UniformPrior:
			scales[s.Name] = (p.Upper - p.Lower) / 20
		case model.ShiftedExponentialPrior:
			scales[s.Name] = 1 / (10 * p.Rate)
		default:
			scales[s.Name] = 0.5
		}
		if scales[s.Name] <= 0 {
			scales[s.Name] = 0.5
		}
	}
	return scales
}
