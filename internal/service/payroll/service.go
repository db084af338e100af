package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Workers bounds how many employees are processed concurrently.
	Workers int
	// DefaultPolicy applies when a request does not name one.
	DefaultPolicy payroll.BatchPolicy
}

type PayrollServiceImpl struct {
	tx             payroll.Transactor
	payrollRepo    payroll.PayrollRepository
	configRepo     payroll.SalaryConfigRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	opts           Options
}

func NewPayrollService(
	tx payroll.Transactor,
	payrollRepo payroll.PayrollRepository,
	configRepo payroll.SalaryConfigRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	opts Options,
) payroll.PayrollService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.DefaultPolicy == "" {
		opts.DefaultPolicy = payroll.BatchPolicyFailFast
	}
	return &PayrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		configRepo:     configRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		opts:           opts,
	}
}

// ========== PAYROLL GENERATION ==========

func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.BatchReport, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchReport{}, err
	}

	period, err := NewPeriod(*req.Month, *req.Year)
	if err != nil {
		return payroll.BatchReport{}, err
	}

	// Validate has already checked req.Policy
	policy := s.opts.DefaultPolicy
	if req.Policy != "" {
		policy = payroll.BatchPolicy(req.Policy)
	}

	stored, err := s.configRepo.GetAll(ctx)
	if err != nil {
		return payroll.BatchReport{}, payroll.NewUpstreamReadError(payroll.StageLoadConfig, "", err)
	}
	cfg := ResolveSalaryConfig(stored)

	employees, err := s.resolveEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		return payroll.BatchReport{}, payroll.NewUpstreamReadError(payroll.StageLoadEmployees, "", err)
	}

	start := time.Now()
	slog.InfoContext(ctx, "Payroll batch starting",
		"month", period.Month, "year", period.Year,
		"employee_count", len(employees), "policy", policy, "workers", s.opts.Workers)

	report, firstErr := s.runBatch(ctx, cfg, period, policy, employees)

	slog.InfoContext(ctx, "Payroll batch finished",
		"month", period.Month, "year", period.Year,
		"succeeded", len(report.Results), "failed", len(report.Failures),
		"duration", time.Since(start))

	if firstErr != nil {
		return payroll.BatchReport{}, firstErr
	}
	return report, nil
}

// runBatch fans employees out to at most Workers concurrent units. Results keep
// the order of employees. Under fail-fast the first failure stops new launches
// and is returned; a cancelled ctx does the same with ctx.Err().
func (s *PayrollServiceImpl) runBatch(
	ctx context.Context,
	cfg payroll.SalaryConfig,
	period payroll.Period,
	policy payroll.BatchPolicy,
	employees []employee.Employee,
) (payroll.BatchReport, error) {
	results := make([]*payroll.EmployeeResult, len(employees))
	failures := make([]*payroll.EmployeeFailure, len(employees))

	g, launchCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, emp := range employees {
		if launchCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if launchCtx.Err() != nil {
				return nil
			}
			// Started units run to completion so a deduction set is never left half-written
			res, err := s.generateForEmployee(context.WithoutCancel(ctx), cfg, period, emp)
			if err != nil {
				slog.ErrorContext(ctx, "Payroll generation failed for employee",
					"employee_id", emp.ID, "stage", stageOf(err),
					"month", period.Month, "year", period.Year, "error", err)
				failures[i] = &payroll.EmployeeFailure{EmployeeID: emp.ID, EmployeeName: emp.FullName, Err: err}
				if policy == payroll.BatchPolicyFailFast {
					return err
				}
				return nil
			}
			results[i] = &res
			return nil
		})
	}

	groupErr := g.Wait()

	report := payroll.BatchReport{Period: period, Policy: policy}
	for i := range employees {
		if results[i] != nil {
			report.Results = append(report.Results, *results[i])
		}
		if failures[i] != nil {
			report.Failures = append(report.Failures, *failures[i])
		}
	}

	if groupErr != nil {
		return report, groupErr
	}
	if err := ctx.Err(); err != nil && len(report.Results)+len(report.Failures) < len(employees) {
		return report, fmt.Errorf("payroll batch interrupted: %w", err)
	}
	return report, nil
}

func stageOf(err error) string {
	var stageErr *payroll.StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}

// generateForEmployee runs one employee as a single unit: it takes the payroll key
// lock, reads attendance and leave through the transaction, then upserts the record
// and replaces its lines. Overlapping runs on the same key serialize on the lock,
// so a record is always computed from the reads of the run that wrote it.
func (s *PayrollServiceImpl) generateForEmployee(
	ctx context.Context,
	cfg payroll.SalaryConfig,
	period payroll.Period,
	emp employee.Employee,
) (payroll.EmployeeResult, error) {
	if !emp.BasicSalary.IsPositive() {
		return payroll.EmployeeResult{}, payroll.NewUpstreamReadError(payroll.StageLoadEmployees, emp.ID, employee.ErrEmployeeHasNoSalary)
	}

	var saved payroll.PayrollRecord
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.payrollRepo.LockPayrollKey(txCtx, emp.ID, period.Month, period.Year); err != nil {
			return payroll.NewPersistenceError(payroll.StageUpsertPayroll, emp.ID, err)
		}

		records, err := s.attendanceRepo.ListByEmployeePeriod(txCtx, emp.ID, period.Start, period.End)
		if err != nil {
			return payroll.NewUpstreamReadError(payroll.StageLoadAttendance, emp.ID, err)
		}
		requests, err := s.leaveRepo.ListApprovedOverlapping(txCtx, emp.ID, period.Start, period.End)
		if err != nil {
			return payroll.NewUpstreamReadError(payroll.StageLoadLeave, emp.ID, err)
		}

		record, lines := buildPayrollRecord(cfg, period, emp, records, requests)

		saved, err = s.payrollRepo.UpsertPayroll(txCtx, record)
		if err != nil {
			return payroll.NewPersistenceError(payroll.StageUpsertPayroll, emp.ID, err)
		}

		if err := s.payrollRepo.ReplaceDeductionLines(txCtx, saved.ID, lines); err != nil {
			return payroll.NewPersistenceError(payroll.StageReplaceDeductionLines, emp.ID, err)
		}
		return nil
	})
	if err != nil {
		var stageErr *payroll.StageError
		if errors.As(err, &stageErr) {
			return payroll.EmployeeResult{}, err
		}
		// begin or commit failed
		return payroll.EmployeeResult{}, payroll.NewPersistenceError(payroll.StageTransaction, emp.ID, err)
	}

	return payroll.EmployeeResult{
		EmployeeID:       emp.ID,
		EmployeeName:     emp.FullName,
		BasicSalary:      emp.BasicSalary,
		TotalDeduction:   saved.TotalDeduction,
		NetPayableSalary: saved.NetPayableSalary,
		PayrollID:        saved.ID,
	}, nil
}

// buildPayrollRecord runs aggregate, leave usage and deduction for one employee.
func buildPayrollRecord(
	cfg payroll.SalaryConfig,
	period payroll.Period,
	emp employee.Employee,
	records []attendance.Attendance,
	requests []leave.LeaveRequest,
) (payroll.PayrollRecord, []payroll.DeductionLine) {
	att := AggregateAttendance(records)
	usage := CalculateLeaveUsage(period, requests, emp.CasualEntitlement(cfg.AnnualCasualLeave), emp.SickEntitlement(cfg.AnnualSickLeave))
	ded := CalculateDeductions(cfg, att, usage, emp.BasicSalary)

	record := payroll.PayrollRecord{
		EmployeeID:          emp.ID,
		Month:               period.Month,
		Year:                period.Year,
		BasicSalary:         emp.BasicSalary,
		WorkingDaysPerMonth: cfg.WorkingDaysPerMonth,
		PresentDays:         att.PresentDays,
		AbsentDays:          att.AbsentDays,
		LateDays:            att.LateDays,
		HalfDays:            att.HalfDays,
		HourlyLeaveHours:    att.HourlyLeaveHours,
		CasualLeaveTaken:    usage.CasualLeaveTaken,
		SickLeaveTaken:      usage.SickLeaveTaken,
		UnpaidLeaveDays:     ded.UnpaidLeaveDays,
		LatePenaltyDays:     ded.LatePenaltyDays,
		HourlyLeaveDays:     ded.HourlyLeaveDays,
		TotalDeductionDays:  ded.TotalDeductionDays,
		DailyRate:           ded.DailyRate,
		TotalDeduction:      ded.TotalDeduction,
		NetPayableSalary:    ded.NetPayableSalary,
		// Regeneration resets an approved record back to pending
		Status: payroll.PayrollStatusPending,
	}
	return record, ded.Lines
}

// resolveEmployees returns the requested employees, or every active one when ids is
// empty. Duplicate ids collapse so no natural key is processed twice in one batch.
func (s *PayrollServiceImpl) resolveEmployees(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		employees, err := s.employeeRepo.GetActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get active employees: %w", err)
		}
		return employees, nil
	}

	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	found, err := s.employeeRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}

	// Keep request order
	byID := make(map[string]employee.Employee, len(found))
	for _, emp := range found {
		byID[emp.ID] = emp
	}
	employees := make([]employee.Employee, 0, len(unique))
	for _, id := range unique {
		if emp, ok := byID[id]; ok {
			employees = append(employees, emp)
		}
	}
	return employees, nil
}

// ========== PAYROLL RECORDS ==========

func (s *PayrollServiceImpl) GetPayrollRecord(ctx context.Context, req payroll.GetPayrollRecordRequest) (payroll.PayrollRecord, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecord{}, err
	}

	record, err := s.payrollRepo.GetByEmployeePeriod(ctx, req.EmployeeID, req.Month, req.Year)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	lines, err := s.payrollRepo.ListDeductionLines(ctx, record.ID)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	record.DeductionLines = lines

	return record, nil
}
