package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrPayrollRecordNotFound = errors.New("payroll record not found")
	ErrInvalidPeriod         = errors.New("invalid payroll period")
	ErrInvalidPolicy         = errors.New("invalid batch policy")

	// Error kinds carried by StageError.
	ErrUpstreamRead = errors.New("upstream read failed")
	ErrPersistence  = errors.New("payroll persistence failed")
)

// Stage names where a batch can fail.
const (
	StageLoadConfig            = "load_config"
	StageLoadEmployees         = "load_employees"
	StageLoadAttendance        = "load_attendance"
	StageLoadLeave             = "load_leave"
	StageUpsertPayroll         = "upsert_payroll"
	StageReplaceDeductionLines = "replace_deduction_lines"
	StageTransaction           = "transaction"
)

// StageError identifies which stage of the pipeline failed and for which employee.
// errors.Is matches both Kind and the wrapped cause.
type StageError struct {
	Kind       error
	Stage      string
	EmployeeID string
	Err        error
}

func (e *StageError) Error() string {
	if e.EmployeeID == "" {
		return fmt.Sprintf("%s at %s: %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s at %s for employee %s: %v", e.Kind, e.Stage, e.EmployeeID, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func NewUpstreamReadError(stage, employeeID string, err error) error {
	return &StageError{Kind: ErrUpstreamRead, Stage: stage, EmployeeID: employeeID, Err: err}
}

func NewPersistenceError(stage, employeeID string, err error) error {
	return &StageError{Kind: ErrPersistence, Stage: stage, EmployeeID: employeeID, Err: err}
}
