package applicant

import (
	"errors"
	"fmt"
)

// Status is a node in the application status state machine.
type Status string

const (
	StatusRegistered         Status = "REGISTERED"
	StatusInterviewPending   Status = "INTERVIEW_PENDING"
	StatusInterviewCompleted Status = "INTERVIEW_COMPLETED"
	StatusOfferReleased      Status = "OFFER_RELEASED"
	StatusOfferAccepted      Status = "OFFER_ACCEPTED"
	StatusRejected           Status = "REJECTED"
	StatusInProgress         Status = "IN_PROGRESS"
	StatusCompleted          Status = "COMPLETED"
)

// ErrInvalidTransition is returned when a status advance would skip a
// gate that no override path permits.
var ErrInvalidTransition = errors.New("invalid status transition")

// Statuses lists every defined status value.
func Statuses() []Status {
	return []Status{
		StatusRegistered,
		StatusInterviewPending,
		StatusInterviewCompleted,
		StatusOfferReleased,
		StatusOfferAccepted,
		StatusRejected,
		StatusInProgress,
		StatusCompleted,
	}
}

// IsValid reports whether s is one of the defined statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusRegistered, StatusInterviewPending, StatusInterviewCompleted,
		StatusOfferReleased, StatusOfferAccepted, StatusRejected,
		StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no operation may change the status further.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// transitions is the monotonic edge set of the lifecycle graph.
var transitions = map[Status][]Status{
	StatusRegistered:         {StatusInterviewPending},
	StatusInterviewPending:   {StatusInterviewCompleted},
	StatusInterviewCompleted: {StatusOfferReleased, StatusRejected},
	StatusOfferReleased:      {StatusOfferAccepted},
	StatusOfferAccepted:      {StatusInProgress},
	StatusInProgress:         {StatusCompleted},
}

// forceTargets are the admin force-decision override targets, reachable
// from any non-terminal pre-review status without passing the interview
// gate.
var forceTargets = map[Status]bool{
	StatusOfferReleased: true,
	StatusRejected:      true,
}

// CanTransition reports whether from may advance to to. A same-status
// write on a non-terminal record is always allowed (patch-only updates
// such as proposal decisions re-assert the current status). With force
// set, the admin override edges to OFFER_RELEASED and REJECTED are also
// admitted. Terminal statuses admit nothing, forced or not.
func CanTransition(from, to Status, force bool) bool {
	if from.IsTerminal() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return force && forceTargets[to]
}

// CheckTransition validates an advance and describes the failure.
func CheckTransition(from, to Status, force bool) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to, force) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
