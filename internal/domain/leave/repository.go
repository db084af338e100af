package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - read access to the leave_requests table
type LeaveRequestRepository interface {
	// ListApprovedOverlapping returns approved requests of the employee whose
	// span intersects [start, end].
	ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error)
}
