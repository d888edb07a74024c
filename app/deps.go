package app

import (
	"github.com/mkazmier/best-test/adapters/export"
	"github.com/mkazmier/best-test/adapters/plot"
	"github.com/mkazmier/best-test/adapters/sampler"
	"github.com/mkazmier/best-test/internal/config"
)

// DefaultDeps wires the built-in adapters: the adaptive Metropolis
// sampler, file-based plot rendering and xlsx/markdown export.
func DefaultDeps(cfg *config.Config) Deps {
	return Deps{
		Sampler:  sampler.NewMetropolis(),
		Renderer: plot.NewFileRenderer(cfg.Output.Dir, cfg.Output.PlotFormat),
		Exporter: export.NewExporter(),
	}
}
