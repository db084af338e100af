package payroll

import "context"

// SalaryConfigRepository reads the sparse key-value salary settings.
type SalaryConfigRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
}

// PayrollRepository defines data access methods for payroll records and their deduction lines.
type PayrollRepository interface {
	// UpsertPayroll inserts or fully replaces the record keyed by
	// (EmployeeID, Month, Year) and returns it with its persisted ID.
	UpsertPayroll(ctx context.Context, record PayrollRecord) (PayrollRecord, error)

	// ReplaceDeductionLines deletes every line of payrollID and inserts lines.
	ReplaceDeductionLines(ctx context.Context, payrollID string, lines []DeductionLine) error

	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayrollRecord, error)
	ListDeductionLines(ctx context.Context, payrollID string) ([]DeductionLine, error)

	// LockPayrollKey serializes units that touch the same natural key. It must be
	// called inside a transaction and is released when the transaction ends.
	LockPayrollKey(ctx context.Context, employeeID string, month, year int) error
}

// Transactor runs fn in one transaction; repositories called with the ctx passed
// to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
