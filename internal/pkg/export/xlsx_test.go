package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBatchReportXLSX(t *testing.T) {
	report := payroll.BatchReport{
		Period: payroll.Period{Month: 2, Year: 2025},
		Policy: payroll.BatchPolicyBestEffort,
		Results: []payroll.EmployeeResult{{
			EmployeeID:       "emp-1",
			EmployeeName:     "Ayu Lestari",
			BasicSalary:      decimal.NewFromInt(3000000),
			TotalDeduction:   decimal.NewFromInt(100000),
			NetPayableSalary: decimal.NewFromInt(2900000),
			PayrollID:        "pay-1",
		}},
		Failures: []payroll.EmployeeFailure{{
			EmployeeID:   "emp-2",
			EmployeeName: "Budi",
			Err:          errors.New("attendance unavailable"),
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBatchReportXLSX(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{resultsSheet, failuresSheet}, f.GetSheetList())

	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, resultHeaders, rows[0])
	assert.Equal(t, "emp-1", rows[1][0])
	assert.Equal(t, "2900000", rows[1][4])

	period, err := f.GetCellValue(resultsSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "02/2025", period)

	failures, err := f.GetRows(failuresSheet)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, []string{"emp-2", "Budi", "attendance unavailable"}, failures[1])
}

func TestWriteBatchReportXLSX_NoFailuresSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBatchReportXLSX(&buf, payroll.BatchReport{
		Period: payroll.Period{Month: 1, Year: 2025},
		Policy: payroll.BatchPolicyFailFast,
	}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{resultsSheet}, f.GetSheetList())
}
