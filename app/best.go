// Package app holds the test controller for the Bayesian two-sample
// difference test (a BEST test, per Kruschke): it stores the prior
// configuration, derives the variable names, rebuilds the model for
// each run, delegates sampling to the sampler port and forwards
// reporting calls over the resulting trace.
package app

import (
	"context"
	"fmt"
	"math"

	"github.com/mkazmier/best-test/domain/core"
	"github.com/mkazmier/best-test/domain/model"
	"github.com/mkazmier/best-test/domain/trace"
	"github.com/mkazmier/best-test/ports"
)

// Deps carries the collaborator ports of a DifferenceTest.
type Deps struct {
	Sampler  ports.SamplerPort
	Renderer ports.RendererPort
	Exporter ports.ExporterPort
}

// RunOptions configures one Run call.
type RunOptions struct {
	// NSamples is the posterior draw count per chain (default 2000).
	NSamples int
	// NTune is the discarded adaptation step count (default NSamples/2).
	NTune int
	// Parallelism is the number of concurrent chains (default 1).
	Parallelism int
	// Seed fixes the run for reproducibility; zero picks one.
	Seed int64
}

// DifferenceTest compares two samples' means and spreads under a
// Bayesian hierarchical model with Student's-t likelihoods. The
// controller is not safe for concurrent use; callers serialize Run.
type DifferenceTest struct {
	cfg   model.Config
	names model.VarNames
	deps  Deps

	model *model.Model
	trace *trace.Trace
}

// New creates a test controller. The configuration is validated once
// here and immutable afterwards.
func New(cfg model.Config, deps Deps) (*DifferenceTest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Sampler == nil {
		return nil, fmt.Errorf("sampler port is required")
	}
	return &DifferenceTest{
		cfg:   cfg,
		names: model.DeriveVarNames(cfg.LabelA, cfg.LabelB),
		deps:  deps,
	}, nil
}

// Config returns the immutable test configuration.
func (t *DifferenceTest) Config() model.Config {
	return t.cfg
}

// ModelVariables returns the ordered names of the seven model
// variables. Valid at any time after construction.
func (t *DifferenceTest) ModelVariables() []string {
	return t.names.All()
}

// buildModel assembles the probabilistic graph for one run:
// Normal priors on both means, Uniform priors on both spreads, a
// shifted Exponential prior on the shared normality parameter, two
// Student's-t likelihoods parameterized by precision, and the two
// deterministic difference variables.
func (t *DifferenceTest) buildModel(observedA, observedB []float64) (*model.Model, error) {
	names := t.names
	b := model.NewBuilder()

	b.Normal(names.Name(model.RoleMeanA), t.cfg.MuMean, t.cfg.MuSd)
	b.Normal(names.Name(model.RoleMeanB), t.cfg.MuMean, t.cfg.MuSd)

	b.Uniform(names.Name(model.RoleSdA), t.cfg.SdLower, t.cfg.SdUpper)
	b.Uniform(names.Name(model.RoleSdB), t.cfg.SdLower, t.cfg.SdUpper)

	// The +1 shift keeps nu above 1 so the likelihood stays a valid
	// heavy-tailed density.
	b.ShiftedExponential(names.Name(model.RoleNu), 1/t.cfg.NuMean, 1)

	b.StudentT("data_"+t.cfg.LabelA,
		names.Name(model.RoleNu), names.Name(model.RoleMeanA), names.Name(model.RoleSdA), observedA)
	b.StudentT("data_"+t.cfg.LabelB,
		names.Name(model.RoleNu), names.Name(model.RoleMeanB), names.Name(model.RoleSdB), observedB)

	b.Difference(names.Name(model.RoleDiffMeans),
		names.Name(model.RoleMeanA), names.Name(model.RoleMeanB))
	b.Difference(names.Name(model.RoleDiffSds),
		names.Name(model.RoleSdA), names.Name(model.RoleSdB))

	return b.Build()
}

// Run rebuilds the model from the observed samples and draws posterior
// samples. It blocks until sampling completes or ctx is canceled. On
// failure the controller keeps its previous model and trace.
func (t *DifferenceTest) Run(ctx context.Context, observedA, observedB []float64, opts RunOptions) error {
	if err := validateObserved("observed_a", observedA); err != nil {
		return err
	}
	if err := validateObserved("observed_b", observedB); err != nil {
		return err
	}
	if opts.NSamples == 0 {
		opts.NSamples = 2000
	}
	if opts.NSamples < 0 {
		return core.NewObservedDataError("nsamples", fmt.Sprintf("must be > 0, got %d", opts.NSamples))
	}
	if opts.Parallelism == 0 {
		opts.Parallelism = 1
	}
	if opts.Parallelism < 0 {
		return core.NewObservedDataError("parallelism", fmt.Sprintf("must be >= 1, got %d", opts.Parallelism))
	}

	m, err := t.buildModel(observedA, observedB)
	if err != nil {
		return err
	}

	tr, err := t.deps.Sampler.Sample(ctx, m, ports.SampleOptions{
		NSamples:    opts.NSamples,
		NTune:       opts.NTune,
		Parallelism: opts.Parallelism,
		Seed:        opts.Seed,
	})
	if err != nil {
		return err
	}

	t.model = m
	t.trace = tr
	return nil
}

// Trace returns the current sampling result.
func (t *DifferenceTest) Trace() (*trace.Trace, error) {
	if t.trace == nil {
		return nil, fmt.Errorf("trace: %w", core.ErrNoTrace)
	}
	return t.trace, nil
}

// Model returns the probabilistic graph built by the last Run.
func (t *DifferenceTest) Model() (*model.Model, error) {
	if t.model == nil {
		return nil, fmt.Errorf("model: %w", core.ErrNoModel)
	}
	return t.model, nil
}

// Summary returns the posterior summary table for the given variables,
// defaulting to all seven in model order.
func (t *DifferenceTest) Summary(varnames []string) (trace.SummaryTable, error) {
	if t.trace == nil {
		return trace.SummaryTable{}, fmt.Errorf("summary: %w", core.ErrNoTrace)
	}
	names, err := t.resolve(varnames)
	if err != nil {
		return trace.SummaryTable{}, err
	}
	return trace.Summarize(t.trace, names, trace.DefaultHPDProb)
}

// PlotPosterior renders posterior density plots for the given variables
// with an optional reference marker.
func (t *DifferenceTest) PlotPosterior(varnames []string, refVal *float64) error {
	if t.trace == nil {
		return fmt.Errorf("plot posterior: %w", core.ErrNoTrace)
	}
	if t.deps.Renderer == nil {
		return fmt.Errorf("no renderer configured")
	}
	names, err := t.resolve(varnames)
	if err != nil {
		return err
	}
	return t.deps.Renderer.PosteriorPlot(t.trace, names, refVal)
}

// ForestPlot renders the credible-interval forest plot.
func (t *DifferenceTest) ForestPlot(varnames []string) error {
	if t.trace == nil {
		return fmt.Errorf("forest plot: %w", core.ErrNoTrace)
	}
	if t.deps.Renderer == nil {
		return fmt.Errorf("no renderer configured")
	}
	names, err := t.resolve(varnames)
	if err != nil {
		return err
	}
	return t.deps.Renderer.ForestPlot(t.trace, names)
}

// TracePlot renders MCMC diagnostic trace plots for all variables.
func (t *DifferenceTest) TracePlot() error {
	if t.trace == nil {
		return fmt.Errorf("trace plot: %w", core.ErrNoTrace)
	}
	if t.deps.Renderer == nil {
		return fmt.Errorf("no renderer configured")
	}
	return t.deps.Renderer.TracePlot(t.trace, t.names.All())
}

// ExportSummary writes the full summary table as an xlsx workbook.
func (t *DifferenceTest) ExportSummary(path string) error {
	if t.deps.Exporter == nil {
		return fmt.Errorf("no exporter configured")
	}
	table, err := t.Summary(nil)
	if err != nil {
		return err
	}
	return t.deps.Exporter.SummaryWorkbook(t.reportInput(table, nil), path)
}

// Report renders the markdown run report, interpreting the difference
// variables against refVal when given.
func (t *DifferenceTest) Report(refVal *float64) (string, error) {
	if t.deps.Exporter == nil {
		return "", fmt.Errorf("no exporter configured")
	}
	table, err := t.Summary(nil)
	if err != nil {
		return "", err
	}
	return t.deps.Exporter.MarkdownReport(t.reportInput(table, refVal))
}

func (t *DifferenceTest) reportInput(table trace.SummaryTable, refVal *float64) ports.ReportInput {
	return ports.ReportInput{
		Config:  t.cfg,
		Names:   t.names,
		Summary: table,
		RefVal:  refVal,
	}
}

// resolve defaults empty varnames to all seven model variables and
// rejects names outside the variable map.
func (t *DifferenceTest) resolve(varnames []string) ([]string, error) {
	if len(varnames) == 0 {
		return t.names.All(), nil
	}
	for _, name := range varnames {
		if !t.names.Contains(name) {
			return nil, core.NewVariableNotFoundError(name)
		}
	}
	return varnames, nil
}

func validateObserved(which string, xs []float64) error {
	if len(xs) == 0 {
		return core.NewObservedDataError(which, "must be non-empty")
	}
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return core.NewObservedDataError(which, fmt.Sprintf("value at index %d is not finite", i))
		}
	}
	return nil
}
