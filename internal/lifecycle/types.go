package lifecycle

import (
	"time"

	"github.com/marliontech/portald/internal/applicant"
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name           string
	Email          string
	College        string
	Year           string
	Department     string
	RegisterNumber string
	IDProofRef     string

	// Stream defaults to applicant.DefaultStream when empty.
	Stream applicant.Stream

	StartDate time.Time
	EndDate   time.Time
}

// Patch is a partial-record update merged atomically with a status
// advance. Nil fields are left untouched.
type Patch struct {
	InterviewScore      *int
	InterviewSummary    *string
	InterviewTranscript []applicant.TranscriptTurn
	ProposalStatus      *applicant.ProposalStatus
	ProposalText        *string
	Progress            *int
}

// apply merges the patch into a record. Caller holds the write lock.
func (p *Patch) apply(a *applicant.Applicant) {
	if p == nil {
		return
	}
	if p.InterviewScore != nil {
		a.InterviewScore = *p.InterviewScore
	}
	if p.InterviewSummary != nil {
		a.InterviewSummary = *p.InterviewSummary
	}
	if p.InterviewTranscript != nil {
		transcript := make([]applicant.TranscriptTurn, len(p.InterviewTranscript))
		copy(transcript, p.InterviewTranscript)
		a.InterviewTranscript = transcript
	}
	if p.ProposalStatus != nil {
		a.ProposalStatus = *p.ProposalStatus
	}
	if p.ProposalText != nil {
		a.ProposalText = *p.ProposalText
	}
	if p.Progress != nil {
		a.Progress = clampProgress(*p.Progress)
	}
}

// Session is an authenticated portal session. Student sessions are bound
// to one applicant; admin sessions have no bound applicant.
type Session struct {
	// Token identifies the session to the transport layer.
	Token string `json:"token"`

	// Role the session acts as.
	Role applicant.Role `json:"role"`

	// ApplicantID is the bound applicant, empty for admin sessions.
	ApplicantID string `json:"applicant_id,omitempty"`
}

func clampProgress(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
