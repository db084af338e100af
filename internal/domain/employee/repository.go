package employee

import "context"

type EmployeeRepository interface {
	// GetActive returns every employee whose employment status is Active.
	GetActive(ctx context.Context) ([]Employee, error)
	// GetByIDs returns the employees matching ids, in no particular order.
	// Unknown ids are silently skipped.
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
}
