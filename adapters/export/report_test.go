package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mkazmier/best-test/domain/model"
	"github.com/mkazmier/best-test/domain/trace"
	"github.com/mkazmier/best-test/internal/testkit"
	"github.com/mkazmier/best-test/ports"
)

func reportFixture() ports.ReportInput {
	cfg := testkit.DefaultConfig()
	names := model.DeriveVarNames(cfg.LabelA, cfg.LabelB)
	table := trace.SummaryTable{Rows: []trace.Row{
		{Variable: "control_mean", Mean: 0.1, Sd: 0.2, MCError: 0.01, HPDLower: -0.3, HPDUpper: 0.5, RHat: 1.001, ESS: 1800, N: 2000},
		{Variable: "treatment_mean", Mean: 3.0, Sd: 0.2, MCError: 0.01, HPDLower: 2.6, HPDUpper: 3.4, RHat: 1.002, ESS: 1750, N: 2000},
		{Variable: "difference_of_means", Mean: -2.9, Sd: 0.3, MCError: 0.01, HPDLower: -3.5, HPDUpper: -2.3, RHat: 1.001, ESS: 1700, N: 2000},
		{Variable: "difference_of_sds", Mean: 0.05, Sd: 0.2, MCError: 0.01, HPDLower: -0.4, HPDUpper: 0.5, RHat: 1.003, ESS: 1650, N: 2000},
	}}
	return ports.ReportInput{Config: cfg, Names: names, Summary: table}
}

func TestMarkdownReport_Contents(t *testing.T) {
	in := reportFixture()

	md, err := NewExporter().MarkdownReport(in)
	require.NoError(t, err)

	assert.Contains(t, md, "# Bayesian difference test: control vs treatment")
	assert.Contains(t, md, "mean ~ Normal(0, 10)")
	assert.Contains(t, md, "sd ~ Uniform(0.1, 10)")
	assert.Contains(t, md, "nu ~ 1 + Exponential(mean 30)")
	assert.Contains(t, md, "| difference_of_means | -2.9000 |")
	assert.NotContains(t, md, "## Interpretation")
}

func TestMarkdownReport_Interpretation(t *testing.T) {
	in := reportFixture()
	ref := 0.0
	in.RefVal = &ref

	md, err := NewExporter().MarkdownReport(in)
	require.NoError(t, err)

	assert.Contains(t, md, "## Interpretation")
	assert.Contains(t, md, "difference_of_means: the 95% HPD interval [-3.5000, -2.3000] excludes 0")
	assert.Contains(t, md, "difference_of_sds: the 95% HPD interval [-0.4000, 0.5000] contains 0")
}

func TestMarkdownReport_EmptySummary(t *testing.T) {
	in := reportFixture()
	in.Summary = trace.SummaryTable{}

	_, err := NewExporter().MarkdownReport(in)
	require.Error(t, err)
}

func TestHTMLReport_RendersMarkdown(t *testing.T) {
	in := reportFixture()
	ref := 0.0
	in.RefVal = &ref

	html, err := NewExporter().HTMLReport(in)
	require.NoError(t, err)

	s := string(html)
	assert.Contains(t, s, "<h1")
	assert.Contains(t, s, "control vs treatment")
	assert.Contains(t, s, "<table")
}

func TestSummaryWorkbook_WritesRows(t *testing.T) {
	in := reportFixture()
	path := filepath.Join(t.TempDir(), "summary.xlsx")

	require.NoError(t, NewExporter().SummaryWorkbook(in, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 1+len(in.Summary.Rows))
	assert.Equal(t, summaryHeader, rows[0])
	assert.Equal(t, "control_mean", rows[1][0])
	assert.True(t, strings.HasPrefix(rows[3][0], "difference_of_means"))
}
