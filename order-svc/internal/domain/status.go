package domain

import (
	"fmt"
	"net/http"
	"strings"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusCooking   Status = "cooking"
	StatusDelivery  Status = "delivery"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var Statuses = []Status{StatusNew, StatusCooking, StatusDelivery, StatusCompleted, StatusCancelled}

// allowedTransitions lists every edge of the order lifecycle. Cancellation
// is only possible before the order leaves the kitchen.
var allowedTransitions = map[Status][]Status{
	StatusNew:      {StatusCooking, StatusCancelled},
	StatusCooking:  {StatusDelivery, StatusCancelled},
	StatusDelivery: {StatusCompleted},
}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Next lists the statuses reachable from s in one step.
func (s Status) Next() []Status {
	out := make([]Status, len(allowedTransitions[s]))
	copy(out, allowedTransitions[s])
	return out
}

// InvalidTransitionError carries the statuses the order could have moved to
// instead, so the caller can offer them.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid status transition from %q to %q: %q is final", e.From, e.To, e.From)
	}
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("invalid status transition from %q to %q, allowed: %s", e.From, e.To, strings.Join(allowed, ", "))
}

func (e *InvalidTransitionError) HTTPStatus() int {
	return http.StatusConflict
}

// ValidateTransition also rejects targets outside the lifecycle, which no
// status can reach.
func ValidateTransition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return &InvalidTransitionError{From: from, To: to, Allowed: from.Next()}
	}
	return nil
}
