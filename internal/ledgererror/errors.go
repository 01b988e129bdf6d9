// Package ledgererror defines the typed failures surfaced by the budgeting engine.
package ledgererror

import (
	"fmt"
	"time"
)

// NotFoundError reports a missing entity. For bucket versions it means no version is
// effective at or before Month, which points to a data integrity problem.
type NotFoundError struct {
	Entity string
	ID     int64
	Month  time.Time
}

func (e *NotFoundError) Error() string {
	if e.Month.IsZero() {
		return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s for bucket %d not found for month %s",
		e.Entity, e.ID, e.Month.Format("2006-01"))
}

// ValidationError represents a rejected configuration or lifecycle request
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a failed write to the entity store
type PersistenceError struct {
	Operation string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Operation, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
