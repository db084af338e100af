package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"--month", "2", "-y", "2025", "-e", "emp-1", "--employee", "emp-2", "--policy", "best_effort", "--xlsx", "out.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, 2, opts.month)
	assert.Equal(t, 2025, opts.year)
	assert.Equal(t, []string{"emp-1", "emp-2"}, opts.employees)
	assert.Equal(t, "best_effort", opts.policy)
	assert.Equal(t, "out.xlsx", opts.xlsxPath)

	req := opts.request()
	require.NoError(t, req.Validate())
	assert.Equal(t, 2, *req.Month)
}

func TestParseFlags_RequiresPeriod(t *testing.T) {
	_, err := parseFlags([]string{"--month", "2"})
	assert.Error(t, err)
}

func TestParseFlags_Help(t *testing.T) {
	_, err := parseFlags([]string{"--help"})
	assert.True(t, errors.Is(err, pflag.ErrHelp))
}

func testReport() payroll.BatchReport {
	return payroll.BatchReport{
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
		Failures: []payroll.EmployeeFailure{{EmployeeID: "emp-2", Err: errors.New("boom")}},
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, testReport()))

	out := buf.String()
	assert.Contains(t, out, "Payroll 02/2025 (best_effort)")
	assert.Contains(t, out, "2900000.00")
	assert.Contains(t, out, "1 generated, 1 failed")
	assert.Contains(t, out, "boom")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, testReport()))

	var resp payroll.GeneratePayrollResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "best_effort", resp.Policy)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "boom", resp.Failures[0].Error)
}
