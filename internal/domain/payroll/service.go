package payroll

import "context"

// PayrollService defines the payroll generation operations
type PayrollService interface {
	// GeneratePayroll runs the batch for one month. Under fail-fast policy any
	// per-employee failure is returned as the error and no report is produced.
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (BatchReport, error)

	// GetPayrollRecord returns the stored record for the natural key with its deduction lines.
	GetPayrollRecord(ctx context.Context, req GetPayrollRecordRequest) (PayrollRecord, error)
}
