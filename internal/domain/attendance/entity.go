package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// Attendance is one employee's record for one calendar date.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     Status
	// LeaveHours is partial-day leave taken on Date, independent of Status.
	LeaveHours *decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
