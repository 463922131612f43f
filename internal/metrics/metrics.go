// Package metrics exposes portald's prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the portal counters. A nil *Metrics is safe to use; every
// method no-ops, which keeps tests and wiring free of conditionals.
type Metrics struct {
	registrations  prometheus.Counter
	logins         *prometheus.CounterVec
	statusAdvances *prometheus.CounterVec
	bans           prometheus.Counter
	interviewTurns prometheus.Counter
	llmFailures    prometheus.Counter
	httpRequests   *prometheus.CounterVec
}

// New creates the metric set and registers it with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portald_registrations_total",
			Help: "Applicant registrations accepted.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portald_logins_total",
			Help: "Login attempts by role and outcome.",
		}, []string{"role", "outcome"}),
		statusAdvances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portald_status_advances_total",
			Help: "Lifecycle status advances by target status.",
		}, []string{"status"}),
		bans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portald_bans_total",
			Help: "Applicants banned (anti-cheat or admin action).",
		}),
		interviewTurns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portald_interview_turns_total",
			Help: "Interview turns accepted into transcripts.",
		}),
		llmFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portald_llm_failures_total",
			Help: "Collaborator calls downgraded to fallback values.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portald_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		m.registrations,
		m.logins,
		m.statusAdvances,
		m.bans,
		m.interviewTurns,
		m.llmFailures,
		m.httpRequests,
	)
	return m
}

// RegistrationAccepted counts one accepted registration.
func (m *Metrics) RegistrationAccepted() {
	if m == nil {
		return
	}
	m.registrations.Inc()
}

// LoginAttempt counts a login attempt by role and outcome ("ok" or "not_found").
func (m *Metrics) LoginAttempt(role, outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(role, outcome).Inc()
}

// StatusAdvanced counts a lifecycle advance into the given status.
func (m *Metrics) StatusAdvanced(status string) {
	if m == nil {
		return
	}
	m.statusAdvances.WithLabelValues(status).Inc()
}

// Banned counts one ban.
func (m *Metrics) Banned() {
	if m == nil {
		return
	}
	m.bans.Inc()
}

// InterviewTurn counts one accepted interview turn.
func (m *Metrics) InterviewTurn() {
	if m == nil {
		return
	}
	m.interviewTurns.Inc()
}

// LLMFailure counts one collaborator call downgraded to its fallback.
func (m *Metrics) LLMFailure() {
	if m == nil {
		return
	}
	m.llmFailures.Inc()
}

// HTTPRequest counts one served request.
func (m *Metrics) HTTPRequest(method, path, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, status).Inc()
}
