package plot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mkazmier/best-test/domain/trace"
)

// chainPalette cycles per-chain line colors on trace plots.
var chainPalette = []color.Color{
	posteriorColor,
	color.RGBA{R: 0xE8, G: 0xA8, B: 0x38, A: 0xFF},
	color.RGBA{R: 0x6B, G: 0xA3, B: 0x68, A: 0xFF},
	color.RGBA{R: 0xB0, G: 0x6C, B: 0xC4, A: 0xFF},
}

// TracePlot renders the draw series of every chain for each variable,
// one file per variable, for MCMC mixing diagnostics.
func (r *FileRenderer) TracePlot(t *trace.Trace, varnames []string) error {
	names, err := resolveVarnames(t, varnames)
	if err != nil {
		return err
	}

	for _, name := range names {
		chains, err := t.ChainColumns(name)
		if err != nil {
			return err
		}

		p := plot.New()
		p.Title.Text = fmt.Sprintf("Trace of %s", name)
		p.X.Label.Text = "draw"
		p.Y.Label.Text = name

		for ci, draws := range chains {
			pts := make(plotter.XYs, len(draws))
			for i, v := range draws {
				pts[i].X = float64(i)
				pts[i].Y = v
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("trace line for %q chain %d: %w", name, ci, err)
			}
			line.Color = chainPalette[ci%len(chainPalette)]
			line.Width = vg.Points(0.5)
			p.Add(line)
			p.Legend.Add(fmt.Sprintf("chain %d", ci), line)
		}

		path, err := r.path("trace", name)
		if err != nil {
			return err
		}
		if err := p.Save(8*vg.Inch, 3*vg.Inch, path); err != nil {
			return fmt.Errorf("save trace plot for %q: %w", name, err)
		}
		logSaved("trace", path)
	}
	return nil
}
