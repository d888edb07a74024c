package ports

import (
	"github.com/mkazmier/best-test/domain/trace"
)

// RendererPort renders diagnostic and posterior plots from a trace.
// Implementations decide the output backend; the built-in adapter
// writes image files to a configured directory.
type RendererPort interface {
	// PosteriorPlot renders a posterior density plot per variable,
	// with an optional reference value marker.
	PosteriorPlot(t *trace.Trace, varnames []string, refVal *float64) error

	// ForestPlot renders the 95% credible intervals and medians for
	// the given variables, annotated with the R-hat statistic.
	ForestPlot(t *trace.Trace, varnames []string) error

	// TracePlot renders the per-chain draw series for MCMC diagnostics.
	TracePlot(t *trace.Trace, varnames []string) error
}
