package report

// State machine for report status transitions. Reports only move forward one
// step at a time; resolved is terminal.
var validTransitions = map[Status][]Status{
	StatusPending: {
		StatusInProgress,
	},
	StatusInProgress: {
		StatusResolved,
	},
	StatusResolved: {},
}

// ValidateStatusTransition checks if status transition is allowed
func ValidateStatusTransition(current, next Status) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}

	allowed, exists := validTransitions[current]
	if !exists {
		return ErrInvalidStatus
	}

	for _, s := range allowed {
		if s == next {
			return nil
		}
	}

	return ErrInvalidStatusTransition
}

// AllowedTransitions returns the statuses reachable from current.
func AllowedTransitions(current Status) []Status {
	return validTransitions[current]
}
