package payroll

import (
	"strconv"
	"strings"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

// defaultSalaryConfig is the single source of fallback values for salary settings.
var defaultSalaryConfig = map[string]int{
	payroll.ConfigLateToleranceCount:  3,
	payroll.ConfigWorkingDaysPerMonth: 30,
	payroll.ConfigHalfDayHours:        4,
	payroll.ConfigFullDayHours:        8,
	payroll.ConfigAnnualCasualLeave:   10,
	payroll.ConfigAnnualSickLeave:     10,
}

// divisorKeys must be positive; zero or negative values fall back to the default.
var divisorKeys = map[string]bool{
	payroll.ConfigLateToleranceCount:  true,
	payroll.ConfigWorkingDaysPerMonth: true,
	payroll.ConfigHalfDayHours:        true,
	payroll.ConfigFullDayHours:        true,
}

// ResolveSalaryConfig fills a SalaryConfig from the stored settings. Missing or
// unparseable values take their default; it never fails.
func ResolveSalaryConfig(stored map[string]string) payroll.SalaryConfig {
	get := func(key string) int {
		raw, ok := stored[key]
		if !ok {
			return defaultSalaryConfig[key]
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return defaultSalaryConfig[key]
		}
		if v < 0 || (v == 0 && divisorKeys[key]) {
			return defaultSalaryConfig[key]
		}
		return v
	}

	return payroll.SalaryConfig{
		LateToleranceCount:  get(payroll.ConfigLateToleranceCount),
		WorkingDaysPerMonth: get(payroll.ConfigWorkingDaysPerMonth),
		HalfDayHours:        get(payroll.ConfigHalfDayHours),
		FullDayHours:        get(payroll.ConfigFullDayHours),
		AnnualCasualLeave:   get(payroll.ConfigAnnualCasualLeave),
		AnnualSickLeave:     get(payroll.ConfigAnnualSickLeave),
	}
}
