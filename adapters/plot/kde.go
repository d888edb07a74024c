package plot

import (
	"math"

	moremath "github.com/aclements/go-moremath/stats"
)

func median(draws []float64) float64 {
	samp := moremath.Sample{Xs: draws}
	samp.Sort()
	return samp.Quantile(0.5)
}

// kdePoints evaluates a Gaussian kernel density estimate of draws on a
// regular grid spanning slightly past the sample bounds. Bandwidth is
// Silverman's rule of thumb, the same default go-moremath's KDE uses.
func kdePoints(draws []float64, gridSize int) (xs, ys []float64) {
	n := len(draws)
	if n == 0 || gridSize < 2 {
		return nil, nil
	}

	samp := moremath.Sample{Xs: draws}
	samp.Sort()
	sd := samp.StdDev()
	iqr := samp.Quantile(0.75) - samp.Quantile(0.25)

	// Silverman: 0.9 * min(sd, IQR/1.34) * n^(-1/5).
	spread := sd
	if iqr > 0 && iqr/1.34 < spread {
		spread = iqr / 1.34
	}
	if spread <= 0 {
		spread = 1e-3
	}
	h := 0.9 * spread * math.Pow(float64(n), -0.2)

	min, max := samp.Bounds()
	lo := min - 3*h
	hi := max + 3*h
	step := (hi - lo) / float64(gridSize-1)

	xs = make([]float64, gridSize)
	ys = make([]float64, gridSize)
	norm := 1 / (float64(n) * h * math.Sqrt(2*math.Pi))
	for i := range xs {
		x := lo + float64(i)*step
		density := 0.0
		for _, d := range draws {
			z := (x - d) / h
			density += math.Exp(-0.5 * z * z)
		}
		xs[i] = x
		ys[i] = density * norm
	}
	return xs, ys
}
