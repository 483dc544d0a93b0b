package order

import (
	"errors"
	"fmt"
	"strings"

	"ordering/internal/pkg/errs"
)

// ErrInvalidTransition is returned when a status change is not an edge of the
// lifecycle graph.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──accept──> Accepted ──> Preparing ──> Ready ──> Completed
//	   │
//	   └──decline──> Declined
//
// Completed and Declined are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the status of a freshly placed order awaiting staff review.
	Pending

	// Accepted means staff took the order, usually with a wait time estimate.
	Accepted

	// Preparing means the kitchen is working on the order.
	Preparing

	// Ready means the order is ready to be served or handed to a courier.
	Ready

	// Completed means the order was served or delivered. Terminal.
	Completed

	// Declined means staff rejected the order. Terminal.
	Declined
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Accepted:  "accepted",
		Preparing: "preparing",
		Ready:     "ready",
		Completed: "completed",
		Declined:  "declined",
	}
}

// allowedTransitions is the whole lifecycle graph. A status absent from the
// map, or mapped to an empty slice, has no outgoing edges.
func allowedTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no edges
	return map[Status][]Status{
		Pending:   {Accepted, Declined},
		Accepted:  {Preparing},
		Preparing: {Ready},
		Ready:     {Completed},
	}
}

// ParseStatus converts the lower-case wire name into a Status.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != Unknown && name == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values, e.g. read from storage.
func (s Status) Validate() error {
	if s <= Unknown || s > Declined {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lower-case wire name, or "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Declined
}

// CanTransitionTo reports whether s → next is an edge of the lifecycle graph.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range allowedTransitions()[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next if s → next is allowed.
//
// Example:
//
//	next, err := order.Pending.TransitionTo(order.Preparing)
//	// err wraps ErrInvalidTransition: accepted cannot be skipped
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}
