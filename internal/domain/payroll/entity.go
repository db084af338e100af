package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Salary configuration keys stored in the salary_config table.
const (
	ConfigLateToleranceCount  = "late_tolerance_count"
	ConfigWorkingDaysPerMonth = "working_days_per_month"
	ConfigHalfDayHours        = "half_day_hours"
	ConfigFullDayHours        = "full_day_hours"
	ConfigAnnualCasualLeave   = "annual_casual_leave"
	ConfigAnnualSickLeave     = "annual_sick_leave"
)

// SalaryConfig is resolved once per batch and shared read-only by every employee unit.
type SalaryConfig struct {
	LateToleranceCount  int
	WorkingDaysPerMonth int
	HalfDayHours        int
	FullDayHours        int
	AnnualCasualLeave   int
	AnnualSickLeave     int
}

// Period is the inclusive calendar-day window of a target month.
type Period struct {
	Month int
	Year  int
	Start time.Time
	End   time.Time
}

// AttendanceSummary - per-employee tallies over a period
type AttendanceSummary struct {
	PresentDays      int
	AbsentDays       int
	LateDays         int
	HalfDays         decimal.Decimal
	HourlyLeaveHours decimal.Decimal
}

// LeaveUsage - clipped leave days grouped by type, after entitlement overage conversion
type LeaveUsage struct {
	CasualLeaveTaken int
	SickLeaveTaken   int
	UnpaidLeaveDays  int
}

type DeductionCategory string

const (
	CategoryUnpaidLeave DeductionCategory = "unpaid_leave"
	CategoryLatePenalty DeductionCategory = "late_penalty"
	CategoryHourlyLeave DeductionCategory = "hourly_leave"
)

// DeductionLine - one itemized row of a payroll record's deduction
type DeductionLine struct {
	ID          string
	PayrollID   string
	Category    DeductionCategory
	Days        decimal.Decimal
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}

// Deduction is the calculator output for one employee.
type Deduction struct {
	UnpaidLeaveDays    decimal.Decimal
	LatePenaltyDays    decimal.Decimal
	HourlyLeaveDays    decimal.Decimal
	TotalDeductionDays decimal.Decimal
	DailyRate          decimal.Decimal
	TotalDeduction     decimal.Decimal
	NetPayableSalary   decimal.Decimal
	Lines              []DeductionLine
}

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending  PayrollStatus = "pending"
	PayrollStatusApproved PayrollStatus = "approved"
	PayrollStatusRejected PayrollStatus = "rejected"
)

// PayrollRecord - generated payroll, unique per (EmployeeID, Month, Year)
type PayrollRecord struct {
	ID                  string
	EmployeeID          string
	Month               int
	Year                int
	BasicSalary         decimal.Decimal
	WorkingDaysPerMonth int
	PresentDays         int
	AbsentDays          int
	LateDays            int
	HalfDays            decimal.Decimal
	HourlyLeaveHours    decimal.Decimal
	CasualLeaveTaken    int
	SickLeaveTaken      int
	UnpaidLeaveDays     decimal.Decimal
	LatePenaltyDays     decimal.Decimal
	HourlyLeaveDays     decimal.Decimal
	TotalDeductionDays  decimal.Decimal
	DailyRate           decimal.Decimal
	TotalDeduction      decimal.Decimal
	NetPayableSalary    decimal.Decimal
	Status              PayrollStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Joined fields
	DeductionLines []DeductionLine
}

// EmployeeResult - outcome of one successful employee unit
type EmployeeResult struct {
	EmployeeID       string
	EmployeeName     string
	BasicSalary      decimal.Decimal
	TotalDeduction   decimal.Decimal
	NetPayableSalary decimal.Decimal
	PayrollID        string
}

// EmployeeFailure - outcome of one failed employee unit
type EmployeeFailure struct {
	EmployeeID   string
	EmployeeName string
	Err          error
}

// BatchPolicy decides what a per-employee failure does to the rest of the batch.
type BatchPolicy string

const (
	// BatchPolicyFailFast stops launching units after the first failure and fails the batch.
	BatchPolicyFailFast BatchPolicy = "fail_fast"
	// BatchPolicyBestEffort processes every employee and reports failures alongside successes.
	BatchPolicyBestEffort BatchPolicy = "best_effort"
)

// ParseBatchPolicy accepts "fail_fast" or "best_effort".
func ParseBatchPolicy(s string) (BatchPolicy, error) {
	switch p := BatchPolicy(s); p {
	case BatchPolicyFailFast, BatchPolicyBestEffort:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

// BatchReport collects successes and failures separately.
type BatchReport struct {
	Period   Period
	Policy   BatchPolicy
	Results  []EmployeeResult
	Failures []EmployeeFailure
}
