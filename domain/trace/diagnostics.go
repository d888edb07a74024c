package trace

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SplitRHat computes the split-chain potential scale reduction factor.
// Each chain is halved so the statistic detects within-chain drift even
// for a single chain. Values near 1 indicate convergence.
func SplitRHat(chains [][]float64) float64 {
	halves := splitHalves(chains)
	if len(halves) < 2 {
		return math.NaN()
	}

	n := len(halves[0])
	if n < 2 {
		return math.NaN()
	}

	means := make([]float64, len(halves))
	vars := make([]float64, len(halves))
	for i, h := range halves {
		means[i] = stat.Mean(h, nil)
		vars[i] = stat.Variance(h, nil)
	}

	w := stat.Mean(vars, nil)
	b := float64(n) * stat.Variance(means, nil)
	if w == 0 {
		if b == 0 {
			return 1
		}
		return math.Inf(1)
	}

	varPlus := (float64(n-1)/float64(n))*w + b/float64(n)
	return math.Sqrt(varPlus / w)
}

// EffectiveSampleSize estimates the effective number of independent
// draws using the initial positive sequence of autocorrelations,
// summed per chain.
func EffectiveSampleSize(chains [][]float64) float64 {
	total := 0.0
	for _, c := range chains {
		total += chainESS(c)
	}
	return total
}

func chainESS(draws []float64) float64 {
	n := len(draws)
	if n < 4 {
		return float64(n)
	}

	mean := stat.Mean(draws, nil)
	v := stat.Variance(draws, nil)
	if v == 0 {
		return float64(n)
	}

	// Sum autocorrelations until the first negative lag.
	sum := 0.0
	for lag := 1; lag < n/2; lag++ {
		acf := 0.0
		for i := 0; i+lag < n; i++ {
			acf += (draws[i] - mean) * (draws[i+lag] - mean)
		}
		acf /= float64(n-lag) * v
		if acf < 0 {
			break
		}
		sum += acf
	}

	ess := float64(n) / (1 + 2*sum)
	if ess > float64(n) {
		ess = float64(n)
	}
	return ess
}

func splitHalves(chains [][]float64) [][]float64 {
	halves := make([][]float64, 0, 2*len(chains))
	for _, c := range chains {
		if len(c) < 4 {
			continue
		}
		mid := len(c) / 2
		halves = append(halves, c[:mid], c[mid:mid*2])
	}
	return halves
}
