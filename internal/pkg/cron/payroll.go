package cron

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/export"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/storage"
	payrollService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
)

type PayrollJobs struct {
	payrollService payroll.PayrollService
	reports        storage.ReportStorage
	runDay         int
	interval       time.Duration
	now            func() time.Time

	mu            sync.Mutex
	lastGenerated payroll.Period
}

// NewPayrollJobs generates the previous month's payroll for every active employee
// on runDay of each month (UTC). A nil reports skips the XLSX archive.
func NewPayrollJobs(payrollService payroll.PayrollService, reports storage.ReportStorage, runDay int, interval time.Duration) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		reports:        reports,
		runDay:         runDay,
		interval:       interval,
		now:            time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "generate_monthly_payroll",
		Interval: j.interval,
		Fn:       j.GenerateMonthlyPayroll,
	})
}

// GenerateMonthlyPayroll runs at most once per period per process, since each
// regeneration resets record status to pending.
func (j *PayrollJobs) GenerateMonthlyPayroll(ctx context.Context) error {
	now := j.now().UTC()
	if now.Day() != j.runDay {
		return nil
	}

	period := payrollService.PreviousPeriod(now)

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastGenerated.Month == period.Month && j.lastGenerated.Year == period.Year {
		return nil
	}

	slog.Info("Cron: Starting monthly payroll generation", "month", period.Month, "year", period.Year)

	month, year := period.Month, period.Year
	report, err := j.payrollService.GeneratePayroll(ctx, payroll.GeneratePayrollRequest{
		Month: &month,
		Year:  &year,
	})
	if err != nil {
		return fmt.Errorf("failed to generate payroll for %02d/%d: %w", month, year, err)
	}

	j.lastGenerated = period
	slog.Info("Cron: Monthly payroll generated",
		"month", month, "year", year,
		"succeeded", len(report.Results), "failed", len(report.Failures))

	if j.reports == nil {
		return nil
	}
	path, err := j.archiveReport(ctx, report)
	if err != nil {
		return fmt.Errorf("payroll for %02d/%d generated but not archived: %w", month, year, err)
	}
	slog.Info("Cron: Payroll report archived", "path", path)
	return nil
}

// ReportKey names the archived report of a period.
func ReportKey(period payroll.Period) string {
	return fmt.Sprintf("payroll/%04d-%02d.xlsx", period.Year, period.Month)
}

func (j *PayrollJobs) archiveReport(ctx context.Context, report payroll.BatchReport) (string, error) {
	var buf bytes.Buffer
	if err := export.WriteBatchReportXLSX(&buf, report); err != nil {
		return "", err
	}
	return j.reports.Save(ctx, ReportKey(report.Period), &buf)
}
