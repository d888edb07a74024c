package trace

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// DefaultHPDProb is the credible mass used by reporting operations.
const DefaultHPDProb = 0.95

// Row is one variable's posterior summary.
type Row struct {
	Variable string  `json:"variable"`
	Mean     float64 `json:"mean"`
	Sd       float64 `json:"sd"`
	MCError  float64 `json:"mc_error"`
	HPDLower float64 `json:"hpd_2.5"`
	HPDUpper float64 `json:"hpd_97.5"`
	RHat     float64 `json:"r_hat"`
	ESS      float64 `json:"ess"`
	N        int     `json:"n"`
}

// SummaryTable is the tabular posterior summary: one row per variable
// in the requested order.
type SummaryTable struct {
	Rows []Row `json:"rows"`
}

// Row returns the summary row for a variable, if present.
func (s SummaryTable) Row(variable string) (Row, bool) {
	for _, r := range s.Rows {
		if r.Variable == variable {
			return r, true
		}
	}
	return Row{}, false
}

// Summarize computes the posterior summary for the given variables.
// prob is the HPD credible mass (DefaultHPDProb when <= 0).
func Summarize(t *Trace, varnames []string, prob float64) (SummaryTable, error) {
	if prob <= 0 || prob >= 1 {
		prob = DefaultHPDProb
	}
	if len(varnames) == 0 {
		varnames = t.Order
	}

	table := SummaryTable{Rows: make([]Row, 0, len(varnames))}
	for _, name := range varnames {
		draws, err := t.Column(name)
		if err != nil {
			return SummaryTable{}, err
		}
		chains, err := t.ChainColumns(name)
		if err != nil {
			return SummaryTable{}, err
		}

		mean, err := stats.Mean(draws)
		if err != nil {
			return SummaryTable{}, err
		}
		sd, err := stats.StandardDeviationSample(draws)
		if err != nil {
			return SummaryTable{}, err
		}

		lo, hi := HPDInterval(draws, prob)
		ess := EffectiveSampleSize(chains)
		mcErr := sd
		if ess > 0 {
			mcErr = sd / math.Sqrt(ess)
		}

		table.Rows = append(table.Rows, Row{
			Variable: name,
			Mean:     mean,
			Sd:       sd,
			MCError:  mcErr,
			HPDLower: lo,
			HPDUpper: hi,
			RHat:     SplitRHat(chains),
			ESS:      ess,
			N:        len(draws),
		})
	}
	return table, nil
}

// HPDInterval returns the narrowest interval containing prob of the
// draws (highest posterior density interval for unimodal posteriors).
func HPDInterval(draws []float64, prob float64) (lo, hi float64) {
	n := len(draws)
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, draws)
	sort.Float64s(sorted)

	k := int(math.Ceil(prob * float64(n)))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}

	lo, hi = sorted[0], sorted[k-1]
	width := hi - lo
	for i := 1; i+k-1 < n; i++ {
		w := sorted[i+k-1] - sorted[i]
		if w < width {
			width = w
			lo, hi = sorted[i], sorted[i+k-1]
		}
	}
	return lo, hi
}
