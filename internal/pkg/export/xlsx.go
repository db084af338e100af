package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet  = "Payroll"
	failuresSheet = "Failures"
)

var (
	resultHeaders  = []string{"Employee ID", "Employee Name", "Basic Salary", "Total Deduction", "Net Payable Salary", "Payroll ID"}
	failureHeaders = []string{"Employee ID", "Employee Name", "Error"}
)

// WriteBatchReportXLSX writes one row per generated payroll and, when the batch
// had failures, a second sheet listing them.
func WriteBatchReportXLSX(w io.Writer, report payroll.BatchReport) error {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"
	if err := f.SetSheetName(f.GetSheetName(0), resultsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeHeaders(f, resultsSheet, resultHeaders); err != nil {
		return err
	}
	for i, r := range report.Results {
		row := []interface{}{
			r.EmployeeID,
			r.EmployeeName,
			r.BasicSalary.InexactFloat64(),
			r.TotalDeduction.InexactFloat64(),
			r.NetPayableSalary.InexactFloat64(),
			r.PayrollID,
		}
		if err := writeRow(f, resultsSheet, i+2, row); err != nil {
			return err
		}
	}

	// Summary below the data
	summaryRow := len(report.Results) + 3
	if err := writeRow(f, resultsSheet, summaryRow, []interface{}{
		"Period", fmt.Sprintf("%02d/%d", report.Period.Month, report.Period.Year),
		"Policy", string(report.Policy),
		"Generated", len(report.Results),
	}); err != nil {
		return err
	}

	if len(report.Failures) > 0 {
		if _, err := f.NewSheet(failuresSheet); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
		if err := writeHeaders(f, failuresSheet, failureHeaders); err != nil {
			return err
		}
		for i, fl := range report.Failures {
			if err := writeRow(f, failuresSheet, i+2, []interface{}{fl.EmployeeID, fl.EmployeeName, fl.Err.Error()}); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(resultsSheet, "A", "F", 20); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return writeRow(f, sheet, 1, row)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
