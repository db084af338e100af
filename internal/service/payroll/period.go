package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

// NewPeriod returns the month window [first day, last day] in UTC.
func NewPeriod(month, year int) (payroll.Period, error) {
	if month < 1 || month > 12 || year < 1 {
		return payroll.Period{}, payroll.ErrInvalidPeriod
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return payroll.Period{Month: month, Year: year, Start: start, End: end}, nil
}

// PreviousPeriod returns the month before the one containing t.
func PreviousPeriod(t time.Time) payroll.Period {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	p, _ := NewPeriod(int(first.Month()), first.Year())
	return p
}

// dateOnly drops the clock and location so that day arithmetic is exact.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
