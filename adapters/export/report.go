package export

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"

	"github.com/mkazmier/best-test/domain/model"
	"github.com/mkazmier/best-test/ports"
)

// MarkdownReport renders a run report: configuration, variable map,
// posterior summary table and, when a reference value is given, an
// interval-based interpretation for both difference variables.
func (e *Exporter) MarkdownReport(in ports.ReportInput) (string, error) {
	if len(in.Summary.Rows) == 0 {
		return "", fmt.Errorf("summary table is empty")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Bayesian difference test: %s vs %s\n\n", in.Config.LabelA, in.Config.LabelB)

	b.WriteString("## Priors\n\n")
	fmt.Fprintf(&b, "- mean ~ Normal(%g, %g)\n", in.Config.MuMean, in.Config.MuSd)
	fmt.Fprintf(&b, "- sd ~ Uniform(%g, %g)\n", in.Config.SdLower, in.Config.SdUpper)
	fmt.Fprintf(&b, "- nu ~ 1 + Exponential(mean %g)\n\n", in.Config.NuMean)

	b.WriteString("## Posterior summary\n\n")
	b.WriteString("| variable | mean | sd | mc_error | hpd_2.5 | hpd_97.5 | r_hat | ess |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, row := range in.Summary.Rows {
		fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.4f | %.4f | %.4f | %.3f | %.0f |\n",
			row.Variable, row.Mean, row.Sd, row.MCError,
			row.HPDLower, row.HPDUpper, row.RHat, row.ESS)
	}
	b.WriteString("\n")

	if in.RefVal != nil {
		b.WriteString("## Interpretation\n\n")
		for _, role := range []model.Role{model.RoleDiffMeans, model.RoleDiffSds} {
			name := in.Names.Name(role)
			row, ok := in.Summary.Row(name)
			if !ok {
				continue
			}
			inHPD := *in.RefVal >= row.HPDLower && *in.RefVal <= row.HPDUpper
			if inHPD {
				fmt.Fprintf(&b, "- %s: the 95%% HPD interval [%.4f, %.4f] contains %g; no credible difference.\n",
					name, row.HPDLower, row.HPDUpper, *in.RefVal)
			} else {
				fmt.Fprintf(&b, "- %s: the 95%% HPD interval [%.4f, %.4f] excludes %g; a credible difference.\n",
					name, row.HPDLower, row.HPDUpper, *in.RefVal)
			}
		}
	}

	return b.String(), nil
}

// HTMLReport converts the markdown report to HTML.
func (e *Exporter) HTMLReport(in ports.ReportInput) ([]byte, error) {
	md, err := e.MarkdownReport(in)
	if err != nil {
		return nil, err
	}
	return markdown.ToHTML([]byte(md), nil, nil), nil
}
