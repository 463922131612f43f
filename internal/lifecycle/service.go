package lifecycle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marliontech/portald/internal/applicant"
	"github.com/marliontech/portald/internal/metrics"
)

var (
	// ErrNotFound indicates no applicant matches the lookup.
	ErrNotFound = errors.New("applicant not found")
	// ErrNoSession indicates an unknown or expired session token.
	ErrNoSession = errors.New("no such session")
	// ErrMissingField indicates a required registration field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrProposalAlreadySubmitted rejects re-submission of a pending or
	// decided proposal.
	ErrProposalAlreadySubmitted = errors.New("proposal already submitted")
)

// Service is the lifecycle store.
type Service struct {
	rule    applicant.DateRule
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu sync.RWMutex
	// records holds the canonical applicant state, keyed by id.
	records map[string]*applicant.Applicant
	// order preserves insertion order: the admin listing is stable and
	// login-by-email resolves duplicates to the first registrant.
	order    []string
	sessions map[string]*Session
}

// NewService creates a lifecycle store enforcing the given date rule.
// The metrics set may be nil.
func NewService(rule applicant.DateRule, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		rule:     rule,
		logger:   logger,
		metrics:  m,
		records:  make(map[string]*applicant.Applicant),
		sessions: make(map[string]*Session),
	}
}

// Register validates the input, creates the applicant record at
// INTERVIEW_PENDING, and binds a fresh student session to it — a new
// registrant is logged straight in.
//
// Duplicate emails are deliberately not rejected; login resolves to the
// first match in insertion order.
func (s *Service) Register(input RegisterInput) (*applicant.Applicant, *Session, error) {
	if input.Name == "" {
		return nil, nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	if input.Email == "" {
		return nil, nil, fmt.Errorf("%w: email", ErrMissingField)
	}

	stream := input.Stream
	if stream == "" {
		stream = applicant.DefaultStream
	}
	if !stream.IsValid() {
		return nil, nil, fmt.Errorf("unknown stream %q", stream)
	}

	if err := s.rule.Validate(input.StartDate, input.EndDate); err != nil {
		return nil, nil, err
	}

	record := &applicant.Applicant{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Email:          input.Email,
		College:        input.College,
		Year:           input.Year,
		Department:     input.Department,
		RegisterNumber: input.RegisterNumber,
		IDProofRef:     input.IDProofRef,
		Stream:         stream,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Status:         applicant.StatusInterviewPending,
		ProposalStatus: applicant.ProposalNotSubmitted,
		Progress:       0,
		Banned:         false,
	}

	session := &Session{
		Token:       uuid.NewString(),
		Role:        applicant.RoleStudent,
		ApplicantID: record.ID,
	}

	s.mu.Lock()
	s.records[record.ID] = record
	s.order = append(s.order, record.ID)
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.metrics.RegistrationAccepted()
	s.logger.Info("applicant registered",
		zap.String("applicant_id", record.ID),
		zap.String("stream", string(record.Stream)))

	return record.Clone(), session, nil
}

// Login establishes a session. Admin logins succeed unconditionally with
// no bound applicant. Student logins require an exact email match and
// bind the session to the first matching record; no state is mutated on
// a failed lookup.
func (s *Service) Login(email string, role applicant.Role) (*Session, *applicant.Applicant, error) {
	if role == applicant.RoleAdmin {
		session := &Session{Token: uuid.NewString(), Role: applicant.RoleAdmin}
		s.mu.Lock()
		s.sessions[session.Token] = session
		s.mu.Unlock()
		s.metrics.LoginAttempt(string(role), "ok")
		s.logger.Info("admin session established")
		return session, nil, nil
	}

	s.mu.Lock()
	record := s.findByEmailLocked(email)
	if record == nil {
		s.mu.Unlock()
		s.metrics.LoginAttempt(string(role), "not_found")
		return nil, nil, fmt.Errorf("%w: email %s", ErrNotFound, email)
	}
	session := &Session{
		Token:       uuid.NewString(),
		Role:        applicant.RoleStudent,
		ApplicantID: record.ID,
	}
	s.sessions[session.Token] = session
	clone := record.Clone()
	s.mu.Unlock()

	s.metrics.LoginAttempt(string(role), "ok")
	s.logger.Info("student session established", zap.String("applicant_id", record.ID))
	return session, clone, nil
}

// Logout drops the session. Unknown tokens are ignored.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Current resolves a session token to its session and, for student
// sessions, the bound applicant's current state.
func (s *Service) Current(token string) (*Session, *applicant.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, nil, ErrNoSession
	}
	if session.ApplicantID == "" {
		return session, nil, nil
	}
	record, ok := s.records[session.ApplicantID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: id %s", ErrNotFound, session.ApplicantID)
	}
	return session, record.Clone(), nil
}

// AdvanceStatus moves an applicant to newStatus and merges the patch in
// the same update. Force admits the admin override edges. The transition
// graph is enforced: terminal statuses reject every further advance.
func (s *Service) AdvanceStatus(id string, newStatus applicant.Status, patch *Patch, force bool) (*applicant.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	if err := applicant.CheckTransition(record.Status, newStatus, force); err != nil {
		return nil, err
	}

	record.Status = newStatus
	patch.apply(record)

	s.metrics.StatusAdvanced(string(newStatus))
	s.logger.Info("status advanced",
		zap.String("applicant_id", id),
		zap.String("status", string(newStatus)),
		zap.Bool("force", force))

	return record.Clone(), nil
}

// Ban sets the banned override. It is idempotent and never cleared by any
// operation.
func (s *Service) Ban(id string) (*applicant.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	if !record.Banned {
		record.Banned = true
		s.metrics.Banned()
		s.logger.Warn("applicant banned", zap.String("applicant_id", id))
	}
	return record.Clone(), nil
}

// AppendLog appends one journal entry. Entries are caller-timestamped and
// never reordered or deleted.
func (s *Service) AppendLog(id string, entry applicant.DailyLog) (*applicant.Applicant, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	record.Logs = append(record.Logs, entry)
	return record.Clone(), nil
}

// SubmitProposal records the project proposal text and moves the proposal
// sub-state to PENDING. Only one submission is accepted.
func (s *Service) SubmitProposal(id, text string) (*applicant.Applicant, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: proposal text", ErrMissingField)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	if record.ProposalStatus != applicant.ProposalNotSubmitted {
		return nil, ErrProposalAlreadySubmitted
	}
	record.ProposalStatus = applicant.ProposalPending
	record.ProposalText = text
	return record.Clone(), nil
}

// DecideProposal records the admin's proposal verdict.
func (s *Service) DecideProposal(id string, approved bool) (*applicant.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	if approved {
		record.ProposalStatus = applicant.ProposalApproved
	} else {
		record.ProposalStatus = applicant.ProposalRejected
	}
	return record.Clone(), nil
}

// SetProgress updates the bootcamp completion percentage, clamped to
// 0..100.
func (s *Service) SetProgress(id string, pct int) (*applicant.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	record.Progress = clampProgress(pct)
	return record.Clone(), nil
}

// Get returns the applicant by id.
func (s *Service) Get(id string) (*applicant.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return record.Clone(), nil
}

// Students returns every applicant in insertion order. The admin review
// console reads this.
func (s *Service) Students() []*applicant.Applicant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*applicant.Applicant, 0, len(s.order))
	for _, id := range s.order {
		if record, ok := s.records[id]; ok {
			out = append(out, record.Clone())
		}
	}
	return out
}

// findByEmailLocked returns the first record registered with the email.
func (s *Service) findByEmailLocked(email string) *applicant.Applicant {
	for _, id := range s.order {
		if record, ok := s.records[id]; ok && record.Email == email {
			return record
		}
	}
	return nil
}
