package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines read access to attendance records.
type AttendanceRepository interface {
	// ListByEmployeePeriod returns the employee's records whose date is within
	// [start, end], both inclusive.
	ListByEmployeePeriod(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)
}
