package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mkazmier/best-test/domain/trace"
)

// ForestPlot renders one figure with a 95% credible interval and median
// per variable, annotated with the split R-hat convergence statistic.
func (r *FileRenderer) ForestPlot(t *trace.Trace, varnames []string) error {
	names, err := resolveVarnames(t, varnames)
	if err != nil {
		return err
	}

	table, err := trace.Summarize(t, names, trace.DefaultHPDProb)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "95% credible intervals"
	p.X.Label.Text = "value"

	labels := make([]string, len(table.Rows))
	medians := make(plotter.XYs, len(table.Rows))
	for i, row := range table.Rows {
		// Top row first, matching reading order.
		y := float64(len(table.Rows) - 1 - i)
		labels[len(table.Rows)-1-i] = fmt.Sprintf("%s (r_hat=%.2f)", row.Variable, row.RHat)

		interval, err := plotter.NewLine(plotter.XYs{
			{X: row.HPDLower, Y: y},
			{X: row.HPDUpper, Y: y},
		})
		if err != nil {
			return fmt.Errorf("interval for %q: %w", row.Variable, err)
		}
		interval.Color = posteriorColor
		interval.Width = vg.Points(2)
		p.Add(interval)

		draws, err := t.Column(row.Variable)
		if err != nil {
			return err
		}
		medians[i].X = median(draws)
		medians[i].Y = y
	}

	points, err := plotter.NewScatter(medians)
	if err != nil {
		return fmt.Errorf("medians: %w", err)
	}
	p.Add(points)
	p.NominalY(labels...)

	path, err := r.path("forest", "")
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save forest plot: %w", err)
	}
	logSaved("forest", path)
	return nil
}
