package interview

import (
	"github.com/marliontech/portald/internal/genai"
)

// State is the session controller's current node.
type State int

const (
	// StateAwaitingInput accepts the next applicant turn.
	StateAwaitingInput State = iota
	// StateProcessing has a collaborator call outstanding; submissions
	// are rejected until it resolves.
	StateProcessing
	// StateTerminated ended the session by policy (ban).
	StateTerminated
	// StateCompleted ran the completion path; results are recorded.
	StateCompleted
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateProcessing:
		return "processing"
	case StateTerminated:
		return "terminated"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// EventKind tags a session event.
type EventKind int

const (
	// EventModelReply carries the next interviewer turn.
	EventModelReply EventKind = iota
	// EventCompleted carries the closing message and evaluation; the
	// caller should navigate to the status view.
	EventCompleted
	// EventBanned carries the policy-violation notice; the session is
	// over and the applicant is banned.
	EventBanned
)

// String returns the event tag for logging and wire payloads.
func (k EventKind) String() string {
	switch k {
	case EventModelReply:
		return "model_reply"
	case EventCompleted:
		return "completed"
	case EventBanned:
		return "banned"
	default:
		return "unknown"
	}
}

// Event is the tagged result of SubmitTurn or ReportPaste.
type Event struct {
	Kind EventKind

	// Reply is the interviewer text: the model turn for EventModelReply,
	// the fixed closing message for EventCompleted, or the user-facing
	// notice for EventBanned.
	Reply string

	// Progress is the session progress percentage after the event.
	Progress int

	// Evaluation is set for EventCompleted.
	Evaluation genai.Evaluation
}

// Ban notices shown to the applicant.
const (
	// PasteNotice is emitted when paste input is rejected.
	PasteNotice = "Copying and pasting is strictly prohibited. Your account has been banned."
	// PolicyNotice is emitted when the collaborator signals a ban.
	PolicyNotice = "Interview terminated due to policy violation."
)
