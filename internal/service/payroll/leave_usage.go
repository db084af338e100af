package payroll

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

// CalculateLeaveUsage clips each approved request to the period, sums the clipped
// days per leave type and converts paid leave beyond the combined entitlement
// into unpaid days. Taken tallies are left as recorded.
func CalculateLeaveUsage(period payroll.Period, requests []leave.LeaveRequest, casualBalance, sickBalance int) payroll.LeaveUsage {
	var usage payroll.LeaveUsage

	for _, req := range requests {
		if req.Status != leave.LeaveStatusApproved {
			continue
		}

		days := clippedDays(period, req)
		if days == 0 {
			continue
		}

		switch req.LeaveType {
		case leave.LeaveTypeCasual:
			usage.CasualLeaveTaken += days
		case leave.LeaveTypeSick:
			usage.SickLeaveTaken += days
		case leave.LeaveTypeUnpaid:
			usage.UnpaidLeaveDays += days
		}
	}

	used := usage.CasualLeaveTaken + usage.SickLeaveTaken
	entitlement := casualBalance + sickBalance
	if used > entitlement {
		usage.UnpaidLeaveDays += used - entitlement
	}

	return usage
}

// clippedDays counts the inclusive days of req that fall inside period.
func clippedDays(period payroll.Period, req leave.LeaveRequest) int {
	start := dateOnly(req.StartDate)
	if ps := dateOnly(period.Start); ps.After(start) {
		start = ps
	}
	end := dateOnly(req.EndDate)
	if pe := dateOnly(period.End); pe.Before(end) {
		end = pe
	}
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
