package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollRecordColumns = `
	id, employee_id, month, year, basic_salary, working_days_per_month,
	present_days, absent_days, late_days, half_days, hourly_leave_hours,
	casual_leave_taken, sick_leave_taken, unpaid_leave_days, late_penalty_days,
	hourly_leave_days, total_deduction_days, daily_rate, total_deduction,
	net_payable_salary, status, created_at, updated_at`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var p payroll.PayrollRecord
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Month, &p.Year, &p.BasicSalary, &p.WorkingDaysPerMonth,
		&p.PresentDays, &p.AbsentDays, &p.LateDays, &p.HalfDays, &p.HourlyLeaveHours,
		&p.CasualLeaveTaken, &p.SickLeaveTaken, &p.UnpaidLeaveDays, &p.LatePenaltyDays,
		&p.HourlyLeaveDays, &p.TotalDeductionDays, &p.DailyRate, &p.TotalDeduction,
		&p.NetPayableSalary, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// ========== PAYROLL RECORDS ==========

func (r *payrollRepository) UpsertPayroll(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to generate payroll id: %w", err)
	}

	// Every computed column and status is overwritten; id and created_at survive
	query := `
		INSERT INTO payroll_records (
			id, employee_id, month, year, basic_salary, working_days_per_month,
			present_days, absent_days, late_days, half_days, hourly_leave_hours,
			casual_leave_taken, sick_leave_taken, unpaid_leave_days, late_penalty_days,
			hourly_leave_days, total_deduction_days, daily_rate, total_deduction,
			net_payable_salary, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			basic_salary = EXCLUDED.basic_salary,
			working_days_per_month = EXCLUDED.working_days_per_month,
			present_days = EXCLUDED.present_days,
			absent_days = EXCLUDED.absent_days,
			late_days = EXCLUDED.late_days,
			half_days = EXCLUDED.half_days,
			hourly_leave_hours = EXCLUDED.hourly_leave_hours,
			casual_leave_taken = EXCLUDED.casual_leave_taken,
			sick_leave_taken = EXCLUDED.sick_leave_taken,
			unpaid_leave_days = EXCLUDED.unpaid_leave_days,
			late_penalty_days = EXCLUDED.late_penalty_days,
			hourly_leave_days = EXCLUDED.hourly_leave_days,
			total_deduction_days = EXCLUDED.total_deduction_days,
			daily_rate = EXCLUDED.daily_rate,
			total_deduction = EXCLUDED.total_deduction,
			net_payable_salary = EXCLUDED.net_payable_salary,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING ` + payrollRecordColumns

	saved, err := scanPayrollRecord(q.QueryRow(ctx, query,
		id.String(), record.EmployeeID, record.Month, record.Year, record.BasicSalary, record.WorkingDaysPerMonth,
		record.PresentDays, record.AbsentDays, record.LateDays, record.HalfDays, record.HourlyLeaveHours,
		record.CasualLeaveTaken, record.SickLeaveTaken, record.UnpaidLeaveDays, record.LatePenaltyDays,
		record.HourlyLeaveDays, record.TotalDeductionDays, record.DailyRate, record.TotalDeduction,
		record.NetPayableSalary, record.Status,
	))
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}

	return saved, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + `
		FROM payroll_records
		WHERE employee_id = $1 AND month = $2 AND year = $3`

	record, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

// LockPayrollKey takes a transaction-scoped advisory lock on the natural key.
func (r *payrollRepository) LockPayrollKey(ctx context.Context, employeeID string, month, year int) error {
	q := GetQuerier(ctx, r.db)

	key := fmt.Sprintf("payroll:%s:%04d-%02d", employeeID, year, month)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("failed to lock payroll key: %w", err)
	}
	return nil
}

// ========== DEDUCTION LINES ==========

func (r *payrollRepository) ReplaceDeductionLines(ctx context.Context, payrollID string, lines []payroll.DeductionLine) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payroll_deduction_lines WHERE payroll_id = $1`, payrollID); err != nil {
		return fmt.Errorf("failed to delete deduction lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, line := range lines {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate deduction line id: %w", err)
		}
		batch.Queue(`
			INSERT INTO payroll_deduction_lines (id, payroll_id, category, days, amount, description)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id.String(), payrollID, line.Category, line.Days, line.Amount, line.Description)
	}

	results := q.SendBatch(ctx, batch)
	for range lines {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to insert deduction line: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to insert deduction lines: %w", err)
	}

	return nil
}

func (r *payrollRepository) ListDeductionLines(ctx context.Context, payrollID string) ([]payroll.DeductionLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, payroll_id, category, days, amount, description, created_at
		FROM payroll_deduction_lines
		WHERE payroll_id = $1
		ORDER BY CASE category
			WHEN 'unpaid_leave' THEN 1
			WHEN 'late_penalty' THEN 2
			WHEN 'hourly_leave' THEN 3
			ELSE 4 END
	`

	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deduction lines: %w", err)
	}
	defer rows.Close()

	var lines []payroll.DeductionLine
	for rows.Next() {
		var l payroll.DeductionLine
		if err := rows.Scan(&l.ID, &l.PayrollID, &l.Category, &l.Days, &l.Amount, &l.Description, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deduction line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
