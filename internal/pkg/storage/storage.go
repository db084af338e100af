package storage

import (
	"context"
	"io"
)

// ReportStorage archives generated payroll reports.
type ReportStorage interface {
	// Save writes the report under key and returns the stored path
	Save(ctx context.Context, key string, report io.Reader) (string, error)

	// Open retrieves a stored report
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	Exists(ctx context.Context, key string) (bool, error)
}
