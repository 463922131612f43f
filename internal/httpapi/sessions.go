package httpapi

import (
	"sync"

	"go.uber.org/zap"

	"github.com/marliontech/portald/internal/applicant"
	"github.com/marliontech/portald/internal/config"
	"github.com/marliontech/portald/internal/genai"
	"github.com/marliontech/portald/internal/interview"
	"github.com/marliontech/portald/internal/lifecycle"
	"github.com/marliontech/portald/internal/metrics"
)

// InterviewSet is the registry of live interview sessions, one per
// applicant. Sessions are created lazily on the first greeting request
// and retained so the controller's own terminal states keep rejecting
// late turns.
type InterviewSet struct {
	cfg     interview.Config
	store   *lifecycle.Service
	collab  genai.Collaborator
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*interview.Controller
}

// NewInterviewSet builds the session registry the server dispatches
// interview endpoints to.
func NewInterviewSet(cfg config.InterviewConfig, store *lifecycle.Service, collab genai.Collaborator, logger *zap.Logger, m *metrics.Metrics) *InterviewSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewSet{
		cfg: interview.Config{
			ProgressStep: cfg.ProgressStep,
			SettleDelay:  cfg.SettleDelay,
			TurnTimeout:  cfg.TurnTimeout,
		},
		store:    store,
		collab:   collab,
		logger:   logger,
		metrics:  m,
		sessions: make(map[string]*interview.Controller),
	}
}

// acquire returns the applicant's session, creating it if absent.
func (set *InterviewSet) acquire(a *applicant.Applicant) (*interview.Controller, error) {
	set.mu.Lock()
	defer set.mu.Unlock()

	if ctrl, ok := set.sessions[a.ID]; ok {
		return ctrl, nil
	}
	ctrl, err := interview.New(set.cfg, set.store, set.collab, a, set.logger, set.metrics)
	if err != nil {
		return nil, err
	}
	set.sessions[a.ID] = ctrl
	return ctrl, nil
}

// lookup returns the applicant's existing session, or nil.
func (set *InterviewSet) lookup(id string) *interview.Controller {
	set.mu.Lock()
	defer set.mu.Unlock()
	return set.sessions[id]
}
