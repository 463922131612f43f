package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/marliontech/portald/internal/applicant"
	"github.com/marliontech/portald/internal/genai"
	"github.com/marliontech/portald/internal/interview"
	"github.com/marliontech/portald/internal/lifecycle"
	"github.com/marliontech/portald/internal/view"
)

const (
	sessionKey   = "portald.session"
	applicantKey = "portald.applicant"
)

// requireSession resolves the bearer token to a live session and stashes
// it, plus the bound applicant for student sessions, on the context.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		session, current, err := s.store.Current(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}
		c.Set(sessionKey, session)
		if current != nil {
			c.Set(applicantKey, current)
		}
		return next(c)
	}
}

func (s *Server) requireStudent(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if session(c).Role != applicant.RoleStudent {
			return echo.NewHTTPError(http.StatusForbidden, "student session required")
		}
		return next(c)
	}
}

func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if session(c).Role != applicant.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin session required")
		}
		return next(c)
	}
}

func session(c echo.Context) *lifecycle.Session {
	return c.Get(sessionKey).(*lifecycle.Session)
}

func boundApplicant(c echo.Context) (*applicant.Applicant, error) {
	current, ok := c.Get(applicantKey).(*applicant.Applicant)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusForbidden, "session has no bound applicant")
	}
	return current, nil
}

// RegisterRequest is the request body for POST /api/v1/register.
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	College        string `json:"college"`
	Year           string `json:"year"`
	Department     string `json:"department"`
	RegisterNumber string `json:"register_number"`
	IDProofRef     string `json:"id_proof_ref"`
	Stream         string `json:"stream"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

// SessionResponse carries a session grant and, for students, the bound
// applicant record.
type SessionResponse struct {
	Token     string               `json:"token"`
	Role      applicant.Role       `json:"role"`
	Applicant *applicant.Applicant `json:"applicant,omitempty"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end_date must be YYYY-MM-DD")
	}

	record, grant, err := s.store.Register(lifecycle.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		College:        req.College,
		Year:           req.Year,
		Department:     req.Department,
		RegisterNumber: req.RegisterNumber,
		IDProofRef:     req.IDProofRef,
		Stream:         applicant.Stream(req.Stream),
		StartDate:      start,
		EndDate:        end,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, SessionResponse{
		Token:     grant.Token,
		Role:      grant.Role,
		Applicant: record,
	})
}

// LoginRequest is the request body for POST /api/v1/login.
type LoginRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	role := applicant.Role(req.Role)
	if role == "" {
		role = applicant.RoleStudent
	}
	if role != applicant.RoleStudent && role != applicant.RoleAdmin {
		return echo.NewHTTPError(http.StatusBadRequest, "role must be STUDENT or ADMIN")
	}

	grant, record, err := s.store.Login(req.Email, role)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no applicant registered with that email")
	}

	return c.JSON(http.StatusOK, SessionResponse{
		Token:     grant.Token,
		Role:      grant.Role,
		Applicant: record,
	})
}

func (s *Server) handleLogout(c echo.Context) error {
	s.store.Logout(session(c).Token)
	return c.NoContent(http.StatusNoContent)
}

// MeResponse is the response body for GET /api/v1/me.
type MeResponse struct {
	Role      applicant.Role       `json:"role"`
	Applicant *applicant.Applicant `json:"applicant,omitempty"`
	View      view.View            `json:"view"`
}

// handleMe returns the session's current applicant snapshot and the
// screen the portal resolves to for an optional ?page= request.
func (s *Server) handleMe(c echo.Context) error {
	sess := session(c)

	var (
		record *applicant.Applicant
		status applicant.Status
		banned bool
	)
	if current, ok := c.Get(applicantKey).(*applicant.Applicant); ok {
		record = current
		status = current.Status
		banned = current.Banned
	}

	return c.JSON(http.StatusOK, MeResponse{
		Role:      sess.Role,
		Applicant: record,
		View:      view.Route(sess.Role, status, banned, view.Page(c.QueryParam("page"))),
	})
}

func (s *Server) handleStudents(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Students())
}

// DecisionRequest is the admin approve/reject body.
type DecisionRequest struct {
	Approve bool `json:"approve"`
}

// handleDecision applies the admin's final call: release an offer or
// reject. Uses the override edges so a decision can be forced before the
// interview concludes.
func (s *Server) handleDecision(c echo.Context) error {
	var req DecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	target := applicant.StatusRejected
	if req.Approve {
		target = applicant.StatusOfferReleased
	}

	record, err := s.store.AdvanceStatus(c.Param("id"), target, nil, true)
	if err != nil {
		return statusError(err)
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) handleBan(c echo.Context) error {
	record, err := s.store.Ban(c.Param("id"))
	if err != nil {
		return statusError(err)
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) handleProposalDecision(c echo.Context) error {
	var req DecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	record, err := s.store.DecideProposal(c.Param("id"), req.Approve)
	if err != nil {
		return statusError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// ProposalRequest is the student proposal submission body.
type ProposalRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSubmitProposal(c echo.Context) error {
	var req ProposalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}

	record, err := s.store.SubmitProposal(session(c).ApplicantID, req.Text)
	if err != nil {
		return statusError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// LogRequest is the daily journal entry body.
type LogRequest struct {
	Date    string `json:"date"`
	Content string `json:"content"`
	RepoURL string `json:"repo_url"`
}

func (s *Server) handleAppendLog(c echo.Context) error {
	var req LogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content field is required")
	}

	record, err := s.store.AppendLog(session(c).ApplicantID, applicant.DailyLog{
		Date:    req.Date,
		Content: req.Content,
		RepoURL: req.RepoURL,
	})
	if err != nil {
		return statusError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// ProgressRequest is the bootcamp progress update body.
type ProgressRequest struct {
	Progress int `json:"progress"`
}

func (s *Server) handleSetProgress(c echo.Context) error {
	var req ProgressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	record, err := s.store.SetProgress(session(c).ApplicantID, req.Progress)
	if err != nil {
		return statusError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// handleAcceptOffer moves a released offer through acceptance into the
// bootcamp. The two advances mirror the acceptance flow on the status
// screen.
func (s *Server) handleAcceptOffer(c echo.Context) error {
	id := session(c).ApplicantID

	if _, err := s.store.AdvanceStatus(id, applicant.StatusOfferAccepted, nil, false); err != nil {
		return statusError(err)
	}
	record, err := s.store.AdvanceStatus(id, applicant.StatusInProgress, nil, false)
	if err != nil {
		return statusError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// CourseHelpRequest is the request body for POST /api/v1/me/course-help.
type CourseHelpRequest struct {
	VideoContext string `json:"video_context"`
	Query        string `json:"query"`
}

// CourseHelpResponse carries the tutor's reply.
type CourseHelpResponse struct {
	Reply string `json:"reply"`
}

// handleCourseHelp answers a bootcamp student's question about the
// lecture they are watching. Failures surface as the collaborator's
// fallback text, never as an error.
func (s *Server) handleCourseHelp(c echo.Context) error {
	var req CourseHelpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query field is required")
	}
	if strings.TrimSpace(req.VideoContext) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "video_context field is required")
	}

	current, err := boundApplicant(c)
	if err != nil {
		return err
	}
	if current.Banned {
		return echo.NewHTTPError(http.StatusConflict, "account is suspended")
	}

	reply := s.collab.Generate(c.Request().Context(),
		genai.CourseHelpPrompt(req.VideoContext, req.Query),
		genai.CourseHelpInstruction)
	return c.JSON(http.StatusOK, CourseHelpResponse{Reply: reply})
}

// TurnResponse is a transcript turn on the wire.
type TurnResponse struct {
	Role      applicant.TurnRole `json:"role"`
	Text      string             `json:"text"`
	Timestamp time.Time          `json:"timestamp"`
}

// GreetingResponse is the response body for POST /api/v1/interview/greeting.
type GreetingResponse struct {
	Turn     TurnResponse `json:"turn"`
	Progress int          `json:"progress"`
}

func (s *Server) handleInterviewGreeting(c echo.Context) error {
	current, err := boundApplicant(c)
	if err != nil {
		return err
	}
	if current.Banned {
		return echo.NewHTTPError(http.StatusConflict, "account is suspended")
	}
	if current.Status != applicant.StatusInterviewPending {
		return echo.NewHTTPError(http.StatusConflict, "no interview pending")
	}

	ctrl, err := s.interviews.acquire(current)
	if err != nil {
		s.logger.Error("failed to open interview session", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open interview session")
	}

	turn := ctrl.Greeting()
	return c.JSON(http.StatusOK, GreetingResponse{
		Turn: TurnResponse{
			Role:      turn.Role,
			Text:      turn.Text,
			Timestamp: turn.Timestamp,
		},
		Progress: ctrl.Progress(),
	})
}

// TurnRequest is the request body for POST /api/v1/interview/turn.
type TurnRequest struct {
	Text string `json:"text"`
}

// EventResponse is a controller event on the wire. Evaluation is present
// only on completion.
type EventResponse struct {
	Kind       string            `json:"kind"`
	Reply      string            `json:"reply"`
	Progress   int               `json:"progress"`
	Evaluation *genai.Evaluation `json:"evaluation,omitempty"`
}

func eventResponse(event interview.Event) EventResponse {
	resp := EventResponse{
		Kind:     event.Kind.String(),
		Reply:    event.Reply,
		Progress: event.Progress,
	}
	if event.Kind == interview.EventCompleted {
		eval := event.Evaluation
		resp.Evaluation = &eval
	}
	return resp
}

func (s *Server) handleInterviewTurn(c echo.Context) error {
	var req TurnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctrl := s.interviews.lookup(session(c).ApplicantID)
	if ctrl == nil {
		return echo.NewHTTPError(http.StatusConflict, "no interview session open")
	}

	event, err := ctrl.SubmitTurn(c.Request().Context(), req.Text)
	switch {
	case errors.Is(err, interview.ErrEmptyInput):
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	case errors.Is(err, interview.ErrTurnInFlight):
		return echo.NewHTTPError(http.StatusConflict, "a turn is already being processed")
	case errors.Is(err, interview.ErrSessionOver):
		return echo.NewHTTPError(http.StatusConflict, "interview session is over")
	case err != nil:
		s.logger.Error("interview turn failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "interview turn failed")
	}

	return c.JSON(http.StatusOK, eventResponse(event))
}

// handleInterviewPaste reports a paste attempt. The policy response is a
// ban, delivered as a 200 with the banned event payload.
func (s *Server) handleInterviewPaste(c echo.Context) error {
	current, err := boundApplicant(c)
	if err != nil {
		return err
	}

	ctrl, err := s.interviews.acquire(current)
	if err != nil {
		s.logger.Error("failed to open interview session", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open interview session")
	}

	event, err := ctrl.ReportPaste()
	switch {
	case errors.Is(err, interview.ErrSessionOver):
		return echo.NewHTTPError(http.StatusConflict, "interview session is over")
	case err != nil:
		s.logger.Error("paste report failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "paste report failed")
	}
	return c.JSON(http.StatusOK, eventResponse(event))
}

// statusError maps store errors to HTTP statuses.
func statusError(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, applicant.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrProposalAlreadySubmitted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
