// Package export writes posterior summaries to xlsx workbooks and
// markdown/HTML reports.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mkazmier/best-test/internal"
	"github.com/mkazmier/best-test/ports"
)

// summaryHeader is the workbook column layout, one row per variable.
var summaryHeader = []string{
	"variable", "mean", "sd", "mc_error", "hpd_2.5", "hpd_97.5", "r_hat", "ess", "n",
}

// Exporter implements ports.ExporterPort.
type Exporter struct{}

// NewExporter creates an exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

var _ ports.ExporterPort = (*Exporter)(nil)

// SummaryWorkbook writes the posterior summary as an xlsx workbook with
// a header row followed by one row per variable, in summary order.
func (e *Exporter) SummaryWorkbook(in ports.ReportInput, path string) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			internal.DefaultLogger.Warn("[Export] close workbook: %v", err)
		}
	}()

	const sheet = "Sheet1"
	for col, name := range summaryHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, row := range in.Summary.Rows {
		values := []interface{}{
			row.Variable, row.Mean, row.Sd, row.MCError,
			row.HPDLower, row.HPDUpper, row.RHat, row.ESS, row.N,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("cell for row %d: %w", i, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	internal.DefaultLogger.Info("[Export] wrote summary workbook to %s", path)
	return nil
}
