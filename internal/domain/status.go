package domain

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus maps a stored token to a Status. Unrecognized tokens fall back
// to PENDING so one bad token does not lose the whole record.
func ParseStatus(token string) Status {
	s := Status(token)
	if s.Valid() {
		return s
	}
	return StatusPending
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status permanently removes an order from the
// pending queues. Terminal orders stay reachable through history only.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
