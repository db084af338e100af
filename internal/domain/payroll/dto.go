package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== GENERATION DTOs ==========

type GeneratePayrollRequest struct {
	Month       *int     `json:"month"`
	Year        *int     `json:"year"`
	EmployeeIDs []string `json:"employeeIds,omitempty"` // Empty = all active employees
	Policy      string   `json:"policy,omitempty"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month == nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "is required"})
	} else if *r.Month < 1 || *r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year == nil {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "is required"})
	} else if *r.Year < 1 || *r.Year > 9999 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 1 and 9999"})
	}
	for _, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{Field: "employeeIds", Message: "must not contain empty ids"})
			break
		}
	}
	if r.Policy != "" && !validator.IsInSlice(r.Policy, []string{string(BatchPolicyFailFast), string(BatchPolicyBestEffort)}) {
		errs = append(errs, validator.ValidationError{Field: "policy", Message: "must be 'fail_fast' or 'best_effort'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResultResponse struct {
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     string          `json:"employee_name"`
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	TotalDeduction   decimal.Decimal `json:"total_deduction"`
	NetPayableSalary decimal.Decimal `json:"net_payable_salary"`
	PayrollID        string          `json:"payroll_id"`
}

type EmployeeFailureResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Error        string `json:"error"`
}

type GeneratePayrollResponse struct {
	Month    int                       `json:"month"`
	Year     int                       `json:"year"`
	Policy   string                    `json:"policy"`
	Count    int                       `json:"count"`
	Results  []EmployeeResultResponse  `json:"results"`
	Failures []EmployeeFailureResponse `json:"failures,omitempty"`
}

// ========== PAYROLL RECORD DTOs ==========

type GetPayrollRecordRequest struct {
	EmployeeID string
	Month      int
	Year       int
}

func (r *GetPayrollRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 1 || r.Year > 9999 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 1 and 9999"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeductionLineResponse struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Days        decimal.Decimal `json:"days"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type PayrollRecordResponse struct {
	ID                  string                  `json:"id"`
	EmployeeID          string                  `json:"employee_id"`
	Month               int                     `json:"month"`
	Year                int                     `json:"year"`
	BasicSalary         decimal.Decimal         `json:"basic_salary"`
	WorkingDaysPerMonth int                     `json:"working_days_per_month"`
	PresentDays         int                     `json:"present_days"`
	AbsentDays          int                     `json:"absent_days"`
	LateDays            int                     `json:"late_days"`
	HalfDays            decimal.Decimal         `json:"half_days"`
	HourlyLeaveHours    decimal.Decimal         `json:"hourly_leave_hours"`
	CasualLeaveTaken    int                     `json:"casual_leave_taken"`
	SickLeaveTaken      int                     `json:"sick_leave_taken"`
	UnpaidLeaveDays     decimal.Decimal         `json:"unpaid_leave_days"`
	LatePenaltyDays     decimal.Decimal         `json:"late_penalty_days"`
	HourlyLeaveDays     decimal.Decimal         `json:"hourly_leave_days"`
	TotalDeductionDays  decimal.Decimal         `json:"total_deduction_days"`
	DailyRate           decimal.Decimal         `json:"daily_rate"`
	TotalDeduction      decimal.Decimal         `json:"total_deduction"`
	NetPayableSalary    decimal.Decimal         `json:"net_payable_salary"`
	Status              string                  `json:"status"`
	DeductionLines      []DeductionLineResponse `json:"deduction_lines"`
	CreatedAt           string                  `json:"created_at"`
	UpdatedAt           string                  `json:"updated_at"`
}

// ========== MAPPERS ==========

func NewGeneratePayrollResponse(report BatchReport) GeneratePayrollResponse {
	resp := GeneratePayrollResponse{
		Month:   report.Period.Month,
		Year:    report.Period.Year,
		Policy:  string(report.Policy),
		Count:   len(report.Results),
		Results: make([]EmployeeResultResponse, 0, len(report.Results)),
	}
	for _, r := range report.Results {
		resp.Results = append(resp.Results, EmployeeResultResponse{
			EmployeeID:       r.EmployeeID,
			EmployeeName:     r.EmployeeName,
			BasicSalary:      r.BasicSalary,
			TotalDeduction:   r.TotalDeduction,
			NetPayableSalary: r.NetPayableSalary,
			PayrollID:        r.PayrollID,
		})
	}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, EmployeeFailureResponse{
			EmployeeID:   f.EmployeeID,
			EmployeeName: f.EmployeeName,
			Error:        f.Err.Error(),
		})
	}
	return resp
}

func NewPayrollRecordResponse(record PayrollRecord) PayrollRecordResponse {
	lines := make([]DeductionLineResponse, 0, len(record.DeductionLines))
	for _, l := range record.DeductionLines {
		lines = append(lines, DeductionLineResponse{
			ID:          l.ID,
			Category:    string(l.Category),
			Days:        l.Days,
			Amount:      l.Amount,
			Description: l.Description,
		})
	}

	return PayrollRecordResponse{
		ID:                  record.ID,
		EmployeeID:          record.EmployeeID,
		Month:               record.Month,
		Year:                record.Year,
		BasicSalary:         record.BasicSalary,
		WorkingDaysPerMonth: record.WorkingDaysPerMonth,
		PresentDays:         record.PresentDays,
		AbsentDays:          record.AbsentDays,
		LateDays:            record.LateDays,
		HalfDays:            record.HalfDays,
		HourlyLeaveHours:    record.HourlyLeaveHours,
		CasualLeaveTaken:    record.CasualLeaveTaken,
		SickLeaveTaken:      record.SickLeaveTaken,
		UnpaidLeaveDays:     record.UnpaidLeaveDays,
		LatePenaltyDays:     record.LatePenaltyDays,
		HourlyLeaveDays:     record.HourlyLeaveDays,
		TotalDeductionDays:  record.TotalDeductionDays,
		DailyRate:           record.DailyRate,
		TotalDeduction:      record.TotalDeduction,
		NetPayableSalary:    record.NetPayableSalary,
		Status:              string(record.Status),
		DeductionLines:      lines,
		CreatedAt:           record.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           record.UpdatedAt.Format(time.RFC3339),
	}
}
