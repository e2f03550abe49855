package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed or missing caller input. It is
// surfaced directly and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing trip, seat, template, or order.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError reports seats whose state precondition failed. The caller
// re-selects; the server never resolves the conflict silently.
type ConflictError struct {
	SeatIDs []int
}

func (e *ConflictError) Error() string {
	ids := make([]string, len(e.SeatIDs))
	for i, id := range e.SeatIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("seats no longer available: %s", strings.Join(ids, ", "))
}
