package applicant

import (
	"time"
)

// Role identifies who a portal session acts as.
type Role string

const (
	// RoleGuest is an unauthenticated visitor.
	RoleGuest Role = "GUEST"
	// RoleStudent is a registered applicant.
	RoleStudent Role = "STUDENT"
	// RoleAdmin is the review console operator.
	RoleAdmin Role = "ADMIN"
)

// Stream is one of the fixed internship tracks an applicant selects.
type Stream string

const (
	StreamImmersiveTech Stream = "Immersive Tech (AR/VR)"
	StreamFullStack     Stream = "Full Stack Apps"
	StreamAgenticAI     Stream = "Agentic AI"
	StreamDataScience   Stream = "Data Science (AI & ML)"
)

// DefaultStream is assigned when registration omits a stream.
const DefaultStream = StreamFullStack

// Streams lists every selectable track.
func Streams() []Stream {
	return []Stream{StreamImmersiveTech, StreamFullStack, StreamAgenticAI, StreamDataScience}
}

// IsValid reports whether s is one of the fixed tracks.
func (s Stream) IsValid() bool {
	switch s {
	case StreamImmersiveTech, StreamFullStack, StreamAgenticAI, StreamDataScience:
		return true
	}
	return false
}

// ProposalStatus is the independent sub-state of the project proposal.
type ProposalStatus string

const (
	ProposalNotSubmitted ProposalStatus = "NOT_SUBMITTED"
	ProposalPending      ProposalStatus = "PENDING"
	ProposalApproved     ProposalStatus = "APPROVED"
	ProposalRejected     ProposalStatus = "REJECTED"
)

// TurnRole tags a transcript turn as spoken by the applicant or the model.
type TurnRole string

const (
	// TurnUser is an applicant turn.
	TurnUser TurnRole = "user"
	// TurnModel is an interviewer turn.
	TurnModel TurnRole = "model"
)

// TranscriptTurn is one timestamped exchange in an interview transcript.
type TranscriptTurn struct {
	Role      TurnRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// DailyLog is one append-only journal entry in an applicant's tracker.
// The date and id are caller-supplied; the store never rewrites them.
type DailyLog struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Content string `json:"content"`
	RepoURL string `json:"repo_url,omitempty"`
}

// Applicant is the central record tracked through the application
// lifecycle. It is mutated in place by the lifecycle store and read by
// every portal view.
type Applicant struct {
	// ID is immutable and unique across the collection.
	ID string `json:"id"`

	// Name is the applicant's full name.
	Name string `json:"name"`

	// Email acts as the login key. Duplicates are not rejected at
	// registration; login resolves to the first match in insertion order.
	Email string `json:"email"`

	// College, Year and Department describe the applicant's institution.
	College    string `json:"college"`
	Year       string `json:"year"`
	Department string `json:"department"`

	// RegisterNumber is the institutional register number.
	RegisterNumber string `json:"register_number,omitempty"`

	// IDProofRef references the uploaded identity proof.
	IDProofRef string `json:"id_proof_ref,omitempty"`

	// Stream is the selected internship track.
	Stream Stream `json:"stream"`

	// StartDate and EndDate bound the requested internship period.
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// Status is the current node in the application state machine.
	Status Status `json:"status"`

	// ProposalStatus and ProposalText track the project proposal.
	ProposalStatus ProposalStatus `json:"proposal_status"`
	ProposalText   string         `json:"proposal_text,omitempty"`

	// Progress is the bootcamp completion percentage, 0-100.
	Progress int `json:"progress"`

	// Banned is a terminal override: once true it supersedes status-based
	// routing and is never cleared.
	Banned bool `json:"banned"`

	// Interview results, written once at interview completion. The
	// transcript is an immutable historical record for admin review.
	InterviewScore      int              `json:"interview_score,omitempty"`
	InterviewSummary    string           `json:"interview_summary,omitempty"`
	InterviewTranscript []TranscriptTurn `json:"interview_transcript,omitempty"`

	// Logs is the ordered, append-only journal.
	Logs []DailyLog `json:"logs,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate store-owned state.
func (a *Applicant) Clone() *Applicant {
	if a == nil {
		return nil
	}
	cp := *a
	if a.InterviewTranscript != nil {
		cp.InterviewTranscript = make([]TranscriptTurn, len(a.InterviewTranscript))
		copy(cp.InterviewTranscript, a.InterviewTranscript)
	}
	if a.Logs != nil {
		cp.Logs = make([]DailyLog, len(a.Logs))
		copy(cp.Logs, a.Logs)
	}
	return &cp
}
