package order

import "fmt"

// Status is an order lifecycle label. Despite the enumeration being closed,
// no transition table is enforced: UpdateStatus overwrites any status with any
// other. Callers that need lifecycle guarantees (for example treating
// CANCELLED as terminal) must layer that policy above this package.
type Status string

// All known order statuses. New orders start in StatusSuccess.
const (
	StatusSuccess   Status = "SUCCESS"
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
	StatusDelivered Status = "DELIVERED"
)

// InvalidStatusError indicates a status label outside the known enumeration.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Value)
}

// ParseStatus converts a raw label into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusSuccess, StatusPending, StatusCancelled, StatusDelivered:
		return Status(s), nil
	}
	return "", &InvalidStatusError{Value: s}
}
