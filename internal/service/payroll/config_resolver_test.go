package payroll

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
)

func TestResolveSalaryConfig_EmptyStoreUsesDefaults(t *testing.T) {
	cfg := ResolveSalaryConfig(map[string]string{})

	assert.Equal(t, payroll.SalaryConfig{
		LateToleranceCount:  3,
		WorkingDaysPerMonth: 30,
		HalfDayHours:        4,
		FullDayHours:        8,
		AnnualCasualLeave:   10,
		AnnualSickLeave:     10,
	}, cfg)

	assert.Equal(t, cfg, ResolveSalaryConfig(nil))
}

func TestResolveSalaryConfig_Values(t *testing.T) {
	tests := []struct {
		name   string
		stored map[string]string
		want   func(c payroll.SalaryConfig) int
		expect int
	}{
		{"stored value wins", map[string]string{"late_tolerance_count": "5"}, lateTolerance, 5},
		{"whitespace trimmed", map[string]string{"working_days_per_month": " 26 "}, workingDays, 26},
		{"unparseable falls back", map[string]string{"full_day_hours": "eight"}, fullDayHours, 8},
		{"decimal text falls back", map[string]string{"full_day_hours": "7.5"}, fullDayHours, 8},
		{"zero divisor falls back", map[string]string{"late_tolerance_count": "0"}, lateTolerance, 3},
		{"negative divisor falls back", map[string]string{"working_days_per_month": "-30"}, workingDays, 30},
		{"zero entitlement kept", map[string]string{"annual_casual_leave": "0"}, casualLeave, 0},
		{"negative entitlement falls back", map[string]string{"annual_casual_leave": "-1"}, casualLeave, 10},
		{"unknown keys ignored", map[string]string{"overtime_rate": "2"}, lateTolerance, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.want(ResolveSalaryConfig(tt.stored)))
		})
	}
}

func TestResolveSalaryConfig_Deterministic(t *testing.T) {
	stored := map[string]string{"late_tolerance_count": "4", "full_day_hours": "x"}
	assert.Equal(t, ResolveSalaryConfig(stored), ResolveSalaryConfig(stored))
}

func lateTolerance(c payroll.SalaryConfig) int { return c.LateToleranceCount }
func workingDays(c payroll.SalaryConfig) int   { return c.WorkingDaysPerMonth }
func fullDayHours(c payroll.SalaryConfig) int  { return c.FullDayHours }
func casualLeave(c payroll.SalaryConfig) int   { return c.AnnualCasualLeave }
