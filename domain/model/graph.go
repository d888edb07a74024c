package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Precision converts a spread to the precision parameterization the
// Student's-t likelihood uses: precision = 1/spread². The conversion
// must be exact; the trace records spreads, the likelihood consumes
// precisions.
func Precision(sd float64) float64 {
	return 1 / (sd * sd)
}

// Stochastic is a named free parameter with a prior.
type Stochastic struct {
	Name  string
	Prior Prior
}

// Likelihood ties an observed sample to a Student's-t density whose
// parameters are resolved by name from the current parameter values.
// The spread variable is converted to precision before evaluation.
type Likelihood struct {
	Name      string
	Observed  []float64
	NuVar     string
	MeanVar   string
	SpreadVar string
}

// Deterministic is a variable computed per draw as the difference of
// two stochastic variables. It is tracked in the trace without being
// directly sampled.
type Deterministic struct {
	Name       string
	Minuend    string
	Subtrahend string
}

// Value computes the deterministic quantity from the current values.
func (d Deterministic) Value(vals map[string]float64) float64 {
	return vals[d.Minuend] - vals[d.Subtrahend]
}

// Model is the assembled probabilistic graph. It is owned by the test
// controller and rebuilt on every run; the sampler consumes it read-only.
type Model struct {
	Stochastics    []Stochastic
	Likelihoods    []Likelihood
	Deterministics []Deterministic
}

// LogPosterior evaluates the unnormalized log posterior at vals, which
// must contain an entry for every stochastic variable. Returns -Inf
// outside the joint support.
func (m *Model) LogPosterior(vals map[string]float64) float64 {
	lp := 0.0
	for _, s := range m.Stochastics {
		x := vals[s.Name]
		if !s.Prior.InSupport(x) {
			return math.Inf(-1)
		}
		lp += s.Prior.LogPDF(x)
	}
	for _, l := range m.Likelihoods {
		nu := vals[l.NuVar]
		mean := vals[l.MeanVar]
		lam := Precision(vals[l.SpreadVar])
		scale := 1 / math.Sqrt(lam)
		t := distuv.StudentsT{Mu: mean, Sigma: scale, Nu: nu}
		for _, x := range l.Observed {
			lp += t.LogProb(x)
		}
	}
	return lp
}

// StochasticNames returns the sampled variable names in graph order.
func (m *Model) StochasticNames() []string {
	names := make([]string, len(m.Stochastics))
	for i, s := range m.Stochastics {
		names[i] = s.Name
	}
	return names
}

// Builder assembles a model graph. Distribution declarations go through
// an explicit builder handle; there is no ambient model context.
type Builder struct {
	m    Model
	seen map[string]bool
	errs []error
}

// NewBuilder creates an empty model builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]bool)}
}

func (b *Builder) declare(name string) bool {
	if b.seen[name] {
		b.errs = append(b.errs, fmt.Errorf("duplicate variable name %q", name))
		return false
	}
	b.seen[name] = true
	return true
}

// Normal declares a Normal(mu, sigma) stochastic node.
func (b *Builder) Normal(name string, mu, sigma float64) *Builder {
	if b.declare(name) {
		b.m.Stochastics = append(b.m.Stochastics, Stochastic{Name: name, Prior: NormalPrior{Mu: mu, Sigma: sigma}})
	}
	return b
}

// Uniform declares a Uniform(lower, upper) stochastic node.
func (b *Builder) Uniform(name string, lower, upper float64) *Builder {
	if b.declare(name) {
		b.m.Stochastics = append(b.m.Stochastics, Stochastic{Name: name, Prior: UniformPrior{Lower: lower, Upper: upper}})
	}
	return b
}

// ShiftedExponential declares a shift + Exponential(rate) stochastic node.
func (b *Builder) ShiftedExponential(name string, rate, shift float64) *Builder {
	if b.declare(name) {
		b.m.Stochastics = append(b.m.Stochastics, Stochastic{Name: name, Prior: ShiftedExponentialPrior{Rate: rate, Shift: shift}})
	}
	return b
}

// StudentT binds an observed sample to a Student's-t likelihood. nuVar,
// meanVar and spreadVar reference previously declared stochastic nodes;
// spreadVar is converted to precision at evaluation time.
func (b *Builder) StudentT(name string, nuVar, meanVar, spreadVar string, observed []float64) *Builder {
	if b.declare(name) {
		b.m.Likelihoods = append(b.m.Likelihoods, Likelihood{
			Name:      name,
			Observed:  observed,
			NuVar:     nuVar,
			MeanVar:   meanVar,
			SpreadVar: spreadVar,
		})
	}
	return b
}

// Difference declares a deterministic node minuend - subtrahend.
func (b *Builder) Difference(name string, minuend, subtrahend string) *Builder {
	if b.declare(name) {
		b.m.Deterministics = append(b.m.Deterministics, Deterministic{Name: name, Minuend: minuend, Subtrahend: subtrahend})
	}
	return b
}

// Build validates the graph and returns the model. All parameter
// references must resolve to declared stochastic nodes.
func (b *Builder) Build() (*Model, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	stoch := make(map[string]bool, len(b.m.Stochastics))
	for _, s := range b.m.Stochastics {
		stoch[s.Name] = true
	}
	for _, l := range b.m.Likelihoods {
		for _, ref := range []string{l.NuVar, l.MeanVar, l.SpreadVar} {
			if !stoch[ref] {
				return nil, fmt.Errorf("likelihood %q references undeclared variable %q", l.Name, ref)
			}
		}
		if len(l.Observed) == 0 {
			return nil, fmt.Errorf("likelihood %q has no observed data", l.Name)
		}
	}
	for _, d := range b.m.Deterministics {
		if !stoch[d.Minuend] || !stoch[d.Subtrahend] {
			return nil, fmt.Errorf("deterministic %q references undeclared variables", d.Name)
		}
	}
	m := b.m
	return &m, nil
}
