package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// CalculateDeductions converts attendance and leave usage into deducted days and
// money. Net payable is neither floored nor clamped at zero.
func CalculateDeductions(cfg payroll.SalaryConfig, att payroll.AttendanceSummary, usage payroll.LeaveUsage, basicSalary decimal.Decimal) payroll.Deduction {
	// Every full block of LateToleranceCount late arrivals costs one day
	latePenalty := decimal.NewFromInt(int64(att.LateDays / cfg.LateToleranceCount))
	hourlyLeaveDays := att.HourlyLeaveHours.Div(decimal.NewFromInt(int64(cfg.FullDayHours)))
	unpaid := decimal.NewFromInt(int64(usage.UnpaidLeaveDays))

	totalDays := unpaid.Add(latePenalty).Add(hourlyLeaveDays)
	dailyRate := basicSalary.Div(decimal.NewFromInt(int64(cfg.WorkingDaysPerMonth)))
	totalDeduction := totalDays.Mul(dailyRate)

	d := payroll.Deduction{
		UnpaidLeaveDays:    unpaid,
		LatePenaltyDays:    latePenalty,
		HourlyLeaveDays:    hourlyLeaveDays,
		TotalDeductionDays: totalDays,
		DailyRate:          dailyRate,
		TotalDeduction:     totalDeduction,
		NetPayableSalary:   basicSalary.Sub(totalDeduction),
	}

	if unpaid.IsPositive() {
		d.Lines = append(d.Lines, payroll.DeductionLine{
			Category:    payroll.CategoryUnpaidLeave,
			Days:        unpaid,
			Amount:      unpaid.Mul(dailyRate),
			Description: fmt.Sprintf("Unpaid leave: %d day(s)", usage.UnpaidLeaveDays),
		})
	}
	if latePenalty.IsPositive() {
		d.Lines = append(d.Lines, payroll.DeductionLine{
			Category: payroll.CategoryLatePenalty,
			Days:     latePenalty,
			Amount:   latePenalty.Mul(dailyRate),
			Description: fmt.Sprintf("Late penalty: %s day(s) for %d late arrival(s), 1 day per %d",
				latePenalty.String(), att.LateDays, cfg.LateToleranceCount),
		})
	}
	if hourlyLeaveDays.IsPositive() {
		d.Lines = append(d.Lines, payroll.DeductionLine{
			Category: payroll.CategoryHourlyLeave,
			Days:     hourlyLeaveDays,
			Amount:   hourlyLeaveDays.Mul(dailyRate),
			Description: fmt.Sprintf("Hourly leave: %s hour(s) at %d hour(s) per day",
				att.HourlyLeaveHours.String(), cfg.FullDayHours),
		})
	}

	return d
}
