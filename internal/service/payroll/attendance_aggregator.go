package payroll

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var halfDayWeight = decimal.NewFromFloat(0.5)

// AggregateAttendance tallies the records of one employee. Records are expected
// to be pre-filtered to the period; dates with no record contribute nothing.
func AggregateAttendance(records []attendance.Attendance) payroll.AttendanceSummary {
	summary := payroll.AttendanceSummary{
		HalfDays:         decimal.Zero,
		HourlyLeaveHours: decimal.Zero,
	}

	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			summary.PresentDays++
		case attendance.StatusAbsent:
			summary.AbsentDays++
		case attendance.StatusLate:
			summary.LateDays++
		case attendance.StatusHalfDay:
			summary.HalfDays = summary.HalfDays.Add(halfDayWeight)
		}

		// Partial-day leave counts regardless of status
		if r.LeaveHours != nil {
			summary.HourlyLeaveHours = summary.HourlyLeaveHours.Add(*r.LeaveHours)
		}
	}

	return summary
}
