package ports

import (
	"github.com/mkazmier/best-test/domain/model"
	"github.com/mkazmier/best-test/domain/trace"
)

// ReportInput carries everything a report or workbook needs about a
// completed run.
type ReportInput struct {
	Config  model.Config
	Names   model.VarNames
	Summary trace.SummaryTable
	RefVal  *float64
}

// ExporterPort writes posterior summaries to external formats.
type ExporterPort interface {
	// SummaryWorkbook writes the summary table as an xlsx workbook.
	SummaryWorkbook(in ReportInput, path string) error

	// MarkdownReport renders a human-readable report of the run.
	MarkdownReport(in ReportInput) (string, error)

	// HTMLReport renders the markdown report to HTML.
	HTMLReport(in ReportInput) ([]byte, error)
}
