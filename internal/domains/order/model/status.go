package model

// Status is the order lifecycle state
type Status string

// =====================================================
// ORDER STATUS CONSTANTS
// =====================================================
const (
	StatusPending           Status = "pending"
	StatusAccepted          Status = "accepted"
	StatusInProgress        Status = "in_progress"
	StatusDelivered         Status = "delivered"
	StatusRevisionRequested Status = "revision_requested"
	StatusRevisionDelivered Status = "revision_delivered"
	StatusCompleted         Status = "completed"
	StatusCancelled         Status = "cancelled"
	StatusDisputed          Status = "disputed"
	StatusRefunded          Status = "refunded"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusDelivered,
		StatusRevisionRequested, StatusRevisionDelivered, StatusCompleted,
		StatusCancelled, StatusDisputed, StatusRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
// Disputed is not terminal: it awaits admin resolution.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}

// validTransitions is the closed transition table of the lifecycle.
// Disputes are representable from every non-terminal state; cancellation
// only before delivery (a delivered order must be disputed, not cancelled).
var validTransitions = map[Status][]Status{
	StatusPending: {
		StatusAccepted,
		StatusCancelled,
		StatusDisputed,
	},
	StatusAccepted: {
		StatusInProgress,
		StatusDelivered,
		StatusCancelled,
		StatusDisputed,
	},
	StatusInProgress: {
		StatusDelivered,
		StatusCancelled,
		StatusDisputed,
	},
	StatusDelivered: {
		StatusRevisionRequested,
		StatusCompleted,
		StatusDisputed,
	},
	StatusRevisionRequested: {
		StatusRevisionDelivered,
		StatusCancelled,
		StatusDisputed,
	},
	StatusRevisionDelivered: {
		StatusRevisionRequested,
		StatusCompleted,
		StatusDisputed,
	},
	StatusDisputed: {
		StatusCompleted,
		StatusCancelled,
		StatusRefunded,
	},
}

// CanTransitionTo checks whether the order may move to newStatus from its
// current state. Validation against a freshly-read state still happens at
// write time in the repository; this covers the fast path.
func (o *Order) CanTransitionTo(newStatus Status) bool {
	allowed, exists := validTransitions[o.Status]
	if !exists {
		return false
	}

	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}

	return false
}
