package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mkazmier/best-test/domain/trace"
)

const kdeGridSize = 256

// PosteriorPlot renders a kernel density estimate of each variable's
// posterior, one file per variable. A non-nil refVal draws a vertical
// reference marker; if the marker lies inside the 95% HPD interval the
// difference is plausibly zero.
func (r *FileRenderer) PosteriorPlot(t *trace.Trace, varnames []string, refVal *float64) error {
	names, err := resolveVarnames(t, varnames)
	if err != nil {
		return err
	}

	for _, name := range names {
		draws, err := t.Column(name)
		if err != nil {
			return err
		}

		xs, ys := kdePoints(draws, kdeGridSize)
		if xs == nil {
			return fmt.Errorf("no draws for variable %q", name)
		}

		pts := make(plotter.XYs, len(xs))
		maxY := 0.0
		for i := range xs {
			pts[i].X = xs[i]
			pts[i].Y = ys[i]
			if ys[i] > maxY {
				maxY = ys[i]
			}
		}

		p := plot.New()
		p.Title.Text = fmt.Sprintf("Posterior of %s", name)
		p.X.Label.Text = name
		p.Y.Label.Text = "density"

		density, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("density line for %q: %w", name, err)
		}
		density.Color = posteriorColor
		density.Width = vg.Points(1.5)
		p.Add(density)

		lo, hi := trace.HPDInterval(draws, trace.DefaultHPDProb)
		hpd, err := plotter.NewLine(plotter.XYs{{X: lo, Y: 0}, {X: hi, Y: 0}})
		if err != nil {
			return fmt.Errorf("hpd line for %q: %w", name, err)
		}
		hpd.Width = vg.Points(3)
		p.Add(hpd)
		p.Legend.Add("95% HPD", hpd)

		if refVal != nil {
			ref, err := plotter.NewLine(plotter.XYs{
				{X: *refVal, Y: 0},
				{X: *refVal, Y: maxY * 1.05},
			})
			if err != nil {
				return fmt.Errorf("reference line for %q: %w", name, err)
			}
			ref.Color = refLineColor
			ref.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			p.Add(ref)
			p.Legend.Add(fmt.Sprintf("ref = %g", *refVal), ref)
		}

		path, err := r.path("posterior", name)
		if err != nil {
			return err
		}
		if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
			return fmt.Errorf("save posterior plot for %q: %w", name, err)
		}
		logSaved("posterior", path)
	}
	return nil
}
