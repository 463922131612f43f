package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/marliontech/portald/internal/applicant"
	"github.com/marliontech/portald/internal/genai"
	"github.com/marliontech/portald/internal/lifecycle"
	"github.com/marliontech/portald/internal/metrics"
)

var (
	// ErrEmptyInput rejects blank turn submissions.
	ErrEmptyInput = errors.New("empty interview input")
	// ErrTurnInFlight rejects a submission while a collaborator call is
	// outstanding; at most one turn is processed at a time.
	ErrTurnInFlight = errors.New("turn already in flight")
	// ErrSessionOver rejects turns after termination or completion.
	ErrSessionOver = errors.New("interview session is over")
)

// Store is the slice of the lifecycle service the controller needs.
type Store interface {
	AdvanceStatus(id string, newStatus applicant.Status, patch *lifecycle.Patch, force bool) (*applicant.Applicant, error)
	Ban(id string) (*applicant.Applicant, error)
}

// Config tunes a session.
type Config struct {
	// ProgressStep is added per accepted turn; 20 by default.
	ProgressStep int
	// SettleDelay pauses between the closing message and the status
	// advance so the message can render. Cosmetic; zero is valid.
	SettleDelay time.Duration
	// TurnTimeout bounds each collaborator call; expiry is treated as a
	// collaborator failure.
	TurnTimeout time.Duration
}

// DefaultConfig returns the default session tuning.
func DefaultConfig() Config {
	return Config{
		ProgressStep: 20,
		SettleDelay:  5 * time.Second,
		TurnTimeout:  60 * time.Second,
	}
}

// Controller is a single-applicant interview session.
type Controller struct {
	cfg     Config
	store   Store
	collab  genai.Collaborator
	logger  *zap.Logger
	metrics *metrics.Metrics

	applicantID string
	name        string
	stream      applicant.Stream

	mu         sync.Mutex
	state      State
	progress   int
	transcript []applicant.TranscriptTurn
}

// New creates a session controller for the applicant.
func New(cfg Config, store Store, collab genai.Collaborator, a *applicant.Applicant, logger *zap.Logger, m *metrics.Metrics) (*Controller, error) {
	if store == nil {
		return nil, errors.New("lifecycle store is required")
	}
	if collab == nil {
		return nil, errors.New("collaborator is required")
	}
	if a == nil {
		return nil, errors.New("applicant is required")
	}
	if cfg.ProgressStep < 1 || cfg.ProgressStep > 100 {
		return nil, fmt.Errorf("progress step must be in 1..100, got %d", cfg.ProgressStep)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		cfg:         cfg,
		store:       store,
		collab:      collab,
		logger:      logger.With(zap.String("applicant_id", a.ID)),
		metrics:     m,
		applicantID: a.ID,
		name:        a.Name,
		stream:      a.Stream,
		state:       StateAwaitingInput,
	}, nil
}

// Greeting appends and returns the fixed opening interviewer turn. It is
// recorded once; repeated calls return the existing opening.
func (c *Controller) Greeting() applicant.TranscriptTurn {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.transcript) == 0 {
		c.transcript = append(c.transcript, applicant.TranscriptTurn{
			Role:      applicant.TurnModel,
			Text:      genai.Greeting(c.name, c.stream),
			Timestamp: time.Now(),
		})
	}
	return c.transcript[0]
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Progress returns the session progress percentage.
func (c *Controller) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// Transcript returns a copy of the turns so far.
func (c *Controller) Transcript() []applicant.TranscriptTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]applicant.TranscriptTurn, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// SubmitTurn processes one applicant turn. The collaborator call is the
// only suspension point; further submissions are rejected until it
// resolves. The returned event is the tagged outcome: the next model
// reply, a ban, or completion.
func (c *Controller) SubmitTurn(ctx context.Context, text string) (Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Event{}, ErrEmptyInput
	}

	c.mu.Lock()
	switch c.state {
	case StateTerminated, StateCompleted:
		c.mu.Unlock()
		return Event{}, ErrSessionOver
	case StateProcessing:
		c.mu.Unlock()
		return Event{}, ErrTurnInFlight
	}

	c.state = StateProcessing
	c.transcript = append(c.transcript, applicant.TranscriptTurn{
		Role:      applicant.TurnUser,
		Text:      text,
		Timestamp: time.Now(),
	})
	c.metrics.InterviewTurn()

	newProgress := c.progress + c.cfg.ProgressStep
	if newProgress >= 100 {
		// Final accepted turn: skip generation and complete directly so
		// the session is bounded at 100/ProgressStep turns.
		c.progress = 100
		c.mu.Unlock()
		return c.finish(ctx)
	}
	c.progress = newProgress

	history := make([]applicant.TranscriptTurn, len(c.transcript)-1)
	copy(history, c.transcript[:len(c.transcript)-1])
	c.mu.Unlock()

	reply := c.generate(ctx, genai.TurnPrompt(history, text), genai.InterviewerInstruction(c.stream))

	switch genai.ClassifyReply(reply) {
	case genai.ReplyBan:
		return c.terminate()
	case genai.ReplyEnd:
		return c.finish(ctx)
	}

	c.mu.Lock()
	if c.state != StateProcessing {
		// The session was terminated while the collaborator call was in
		// flight (paste ban). The reply is discarded; the transcript must
		// not grow after a ban.
		c.mu.Unlock()
		return Event{}, ErrSessionOver
	}
	c.transcript = append(c.transcript, applicant.TranscriptTurn{
		Role:      applicant.TurnModel,
		Text:      reply,
		Timestamp: time.Now(),
	})
	progress := c.progress
	c.state = StateAwaitingInput
	c.mu.Unlock()

	return Event{Kind: EventModelReply, Reply: reply, Progress: progress}, nil
}

// ReportPaste handles a detected paste attempt: the applicant is banned
// before any text reaches the transcript, including a ban landing while a
// collaborator call is in flight. Idempotent; repeated pastes after the
// ban have no further effect, and a completed session is left alone.
func (c *Controller) ReportPaste() (Event, error) {
	c.mu.Lock()
	switch c.state {
	case StateTerminated:
		c.mu.Unlock()
		return Event{Kind: EventBanned, Reply: PasteNotice}, nil
	case StateCompleted:
		c.mu.Unlock()
		return Event{}, ErrSessionOver
	}
	c.mu.Unlock()

	c.logger.Warn("paste attempt during interview")
	event, err := c.terminate()
	if err != nil {
		return event, err
	}
	event.Reply = PasteNotice
	return event, nil
}

// generate runs one bounded collaborator call.
func (c *Controller) generate(ctx context.Context, prompt, instruction string) string {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.TurnTimeout)
	defer cancel()
	return c.collab.Generate(callCtx, prompt, instruction)
}

// terminate bans the applicant and closes the session. The state flips
// first so any in-flight turn discards its reply before the ban is
// recorded.
func (c *Controller) terminate() (Event, error) {
	c.mu.Lock()
	if c.state == StateCompleted {
		c.mu.Unlock()
		return Event{}, ErrSessionOver
	}
	c.state = StateTerminated
	progress := c.progress
	c.mu.Unlock()

	if _, err := c.store.Ban(c.applicantID); err != nil {
		c.logger.Error("failed to ban applicant", zap.Error(err))
		return Event{}, fmt.Errorf("failed to ban applicant: %w", err)
	}

	c.logger.Warn("interview terminated by policy")
	return Event{Kind: EventBanned, Reply: PolicyNotice, Progress: progress}, nil
}

// finish runs the completion path: closing message, transcript
// evaluation, settling delay, then the atomic status advance carrying the
// interview results.
func (c *Controller) finish(ctx context.Context) (Event, error) {
	c.mu.Lock()
	if c.state != StateProcessing {
		c.mu.Unlock()
		return Event{}, ErrSessionOver
	}
	c.transcript = append(c.transcript, applicant.TranscriptTurn{
		Role:      applicant.TurnModel,
		Text:      genai.ClosingMessage,
		Timestamp: time.Now(),
	})
	transcript := make([]applicant.TranscriptTurn, len(c.transcript))
	copy(transcript, c.transcript)
	c.mu.Unlock()

	evalCtx, cancel := context.WithTimeout(ctx, c.cfg.TurnTimeout)
	eval := c.collab.Evaluate(evalCtx, genai.RenderTranscript(transcript))
	cancel()

	if c.cfg.SettleDelay > 0 {
		select {
		case <-time.After(c.cfg.SettleDelay):
		case <-ctx.Done():
		}
	}

	// A ban can land during the evaluation call; the results of a banned
	// session are never recorded.
	c.mu.Lock()
	if c.state != StateProcessing {
		c.mu.Unlock()
		return Event{}, ErrSessionOver
	}
	c.state = StateCompleted
	c.progress = 100
	c.mu.Unlock()

	_, err := c.store.AdvanceStatus(c.applicantID, applicant.StatusInterviewCompleted, &lifecycle.Patch{
		InterviewScore:      &eval.Score,
		InterviewSummary:    &eval.Summary,
		InterviewTranscript: transcript,
	}, false)
	if err != nil {
		c.logger.Error("failed to record interview result", zap.Error(err))
		return Event{}, fmt.Errorf("failed to record interview result: %w", err)
	}

	c.logger.Info("interview completed", zap.Int("score", eval.Score))
	return Event{
		Kind:       EventCompleted,
		Reply:      genai.ClosingMessage,
		Progress:   100,
		Evaluation: eval,
	}, nil
}
