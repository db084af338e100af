package employee

import (
	"github.com/shopspring/decimal"
)

// Employee is the read-only snapshot the payroll engine consumes.
type Employee struct {
	ID                 string
	FullName           string
	EmploymentStatus   EmploymentStatus
	BasicSalary        decimal.Decimal
	CasualLeaveBalance *int
	SickLeaveBalance   *int
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "Active"
	EmploymentStatusInactive   EmploymentStatus = "Inactive"
	EmploymentStatusResigned   EmploymentStatus = "Resigned"
	EmploymentStatusTerminated EmploymentStatus = "Terminated"
)

// CasualEntitlement returns the casual leave balance, or fallback when none is recorded.
func (e Employee) CasualEntitlement(fallback int) int {
	if e.CasualLeaveBalance == nil {
		return fallback
	}
	return *e.CasualLeaveBalance
}

// SickEntitlement returns the sick leave balance, or fallback when none is recorded.
func (e Employee) SickEntitlement(fallback int) int {
	if e.SickLeaveBalance == nil {
		return fallback
	}
	return *e.SickLeaveBalance
}
