package payroll

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

// memoryStore backs the fake payroll repository and transactor. Writes made
// inside WithinTransaction are undone when fn fails.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]payroll.PayrollRecord // natural key -> record
	lines   map[string][]payroll.DeductionLine
	nextID  int

	upsertErr  map[string]error // employee id -> error
	replaceErr map[string]error
	commitErr  error
	onUpsert   func(employeeID string)
}

type memoryTx struct {
	locked  map[string]bool // employee ids whose payroll key is locked
	records map[string]*payroll.PayrollRecord
	lines   map[string][]payroll.DeductionLine
	hadLine map[string]bool
}

type memoryTxKey struct{}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records:    map[string]payroll.PayrollRecord{},
		lines:      map[string][]payroll.DeductionLine{},
		upsertErr:  map[string]error{},
		replaceErr: map[string]error{},
	}
}

func naturalKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s:%04d-%02d", employeeID, year, month)
}

func (s *memoryStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &memoryTx{
		locked:  map[string]bool{},
		records: map[string]*payroll.PayrollRecord{},
		lines:   map[string][]payroll.DeductionLine{},
		hadLine: map[string]bool{},
	}

	err := fn(context.WithValue(ctx, memoryTxKey{}, tx))
	if err == nil {
		s.mu.Lock()
		err = s.commitErr
		s.mu.Unlock()
	}
	if err != nil {
		s.rollback(tx)
		return err
	}
	return nil
}

func (s *memoryStore) rollback(tx *memoryTx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, prev := range tx.records {
		if prev == nil {
			delete(s.records, key)
		} else {
			s.records[key] = *prev
		}
	}
	for id, prev := range tx.lines {
		if tx.hadLine[id] {
			s.lines[id] = prev
		} else {
			delete(s.lines, id)
		}
	}
}

// Callers hold s.mu.
func (s *memoryStore) rememberRecord(ctx context.Context, key string) {
	tx, ok := ctx.Value(memoryTxKey{}).(*memoryTx)
	if !ok {
		return
	}
	if _, seen := tx.records[key]; seen {
		return
	}
	if prev, exists := s.records[key]; exists {
		tx.records[key] = &prev
	} else {
		tx.records[key] = nil
	}
}

// Callers hold s.mu.
func (s *memoryStore) rememberLines(ctx context.Context, payrollID string) {
	tx, ok := ctx.Value(memoryTxKey{}).(*memoryTx)
	if !ok {
		return
	}
	if _, seen := tx.lines[payrollID]; seen {
		return
	}
	prev, exists := s.lines[payrollID]
	tx.lines[payrollID] = prev
	tx.hadLine[payrollID] = exists
}

func (s *memoryStore) LockPayrollKey(ctx context.Context, employeeID string, month, year int) error {
	if tx, ok := ctx.Value(memoryTxKey{}).(*memoryTx); ok {
		tx.locked[employeeID] = true
	}
	return nil
}

// readUnderLock reports whether ctx belongs to a transaction holding employeeID's payroll key lock.
func readUnderLock(ctx context.Context, employeeID string) bool {
	tx, ok := ctx.Value(memoryTxKey{}).(*memoryTx)
	return ok && tx.locked[employeeID]
}

func (s *memoryStore) UpsertPayroll(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	if s.onUpsert != nil {
		s.onUpsert(record.EmployeeID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.upsertErr[record.EmployeeID]; err != nil {
		return payroll.PayrollRecord{}, err
	}

	key := naturalKey(record.EmployeeID, record.Month, record.Year)
	s.rememberRecord(ctx, key)
	now := time.Now()
	if existing, ok := s.records[key]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		s.nextID++
		record.ID = fmt.Sprintf("pay-%d", s.nextID)
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	s.records[key] = record
	return record, nil
}

func (s *memoryStore) ReplaceDeductionLines(ctx context.Context, payrollID string, lines []payroll.DeductionLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rememberLines(ctx, payrollID)
	delete(s.lines, payrollID)

	for _, rec := range s.records {
		if rec.ID == payrollID {
			if err := s.replaceErr[rec.EmployeeID]; err != nil {
				return err
			}
		}
	}

	stored := make([]payroll.DeductionLine, len(lines))
	for i, l := range lines {
		l.PayrollID = payrollID
		l.ID = fmt.Sprintf("%s-line-%d", payrollID, i+1)
		stored[i] = l
	}
	s.lines[payrollID] = stored
	return nil
}

func (s *memoryStore) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[naturalKey(employeeID, month, year)]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return rec, nil
}

func (s *memoryStore) ListDeductionLines(ctx context.Context, payrollID string) ([]payroll.DeductionLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines[payrollID]), nil
}

func (s *memoryStore) setStatus(employeeID string, month, year int, status payroll.PayrollStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := naturalKey(employeeID, month, year)
	rec := s.records[key]
	rec.Status = status
	s.records[key] = rec
}

type fakeConfigRepo struct {
	values map[string]string
	err    error
}

func (r *fakeConfigRepo) GetAll(ctx context.Context) (map[string]string, error) {
	return r.values, r.err
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
	err       error
	byIDsArgs [][]string
}

func (r *fakeEmployeeRepo) GetActive(ctx context.Context) ([]employee.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	var active []employee.Employee
	for _, e := range r.employees {
		if e.EmploymentStatus == employee.EmploymentStatusActive {
			active = append(active, e)
		}
	}
	return active, nil
}

func (r *fakeEmployeeRepo) GetByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	r.byIDsArgs = append(r.byIDsArgs, ids)
	if r.err != nil {
		return nil, r.err
	}
	// Return in repository order, not request order
	var found []employee.Employee
	for _, e := range r.employees {
		if slices.Contains(ids, e.ID) {
			found = append(found, e)
		}
	}
	return found, nil
}

type fakeAttendanceRepo struct {
	mu       sync.Mutex
	records  map[string][]attendance.Attendance
	errFor   map[string]error
	delay    time.Duration
	calls    []string
	unlocked []string // employees read outside their locked unit
}

func (r *fakeAttendanceRepo) ListByEmployeePeriod(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	r.calls = append(r.calls, employeeID)
	if !readUnderLock(ctx, employeeID) {
		r.unlocked = append(r.unlocked, employeeID)
	}
	delay := r.delay
	err := r.errFor[employeeID]
	r.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}

	var out []attendance.Attendance
	for _, a := range r.records[employeeID] {
		if !a.Date.Before(start) && !a.Date.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type fakeLeaveRepo struct {
	mu       sync.Mutex
	requests map[string][]leave.LeaveRequest
	err      error
	unlocked []string
}

func (r *fakeLeaveRepo) ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !readUnderLock(ctx, employeeID) {
		r.unlocked = append(r.unlocked, employeeID)
	}
	if r.err != nil {
		return nil, r.err
	}
	var out []leave.LeaveRequest
	for _, req := range r.requests[employeeID] {
		if req.Status == leave.LeaveStatusApproved && !req.StartDate.After(end) && !req.EndDate.Before(start) {
			out = append(out, req)
		}
	}
	return out, nil
}
