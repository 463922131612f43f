package view

import "github.com/marliontech/portald/internal/applicant"

// Page is a navigation request, typically from a URL fragment.
type Page string

const (
	PageHome     Page = "home"
	PageLogin    Page = "login"
	PageRegister Page = "register"
	PageAdmin    Page = "admin"
	PageStatus   Page = "status"
	PageDash     Page = "dashboard"
)

// View is the screen the portal resolves to.
type View string

const (
	ViewHome      View = "home"
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewAdmin     View = "admin"
	ViewInterview View = "interview"
	ViewStatus    View = "status"
	ViewDashboard View = "dashboard"
	ViewSuspended View = "suspended"
)

// Route resolves the screen for the given identity and requested page.
// Precedence, highest first: explicit login request, admin identity or
// admin page, explicit register request, then the student's application
// state. A banned student always lands on the suspension screen. Guests
// fall through to the public home page.
func Route(role applicant.Role, status applicant.Status, banned bool, page Page) View {
	if page == PageLogin {
		return ViewLogin
	}
	if role == applicant.RoleAdmin || page == PageAdmin {
		return ViewAdmin
	}
	if page == PageRegister {
		return ViewRegister
	}

	if role == applicant.RoleStudent {
		if banned {
			return ViewSuspended
		}
		switch {
		case status == applicant.StatusInterviewPending:
			return ViewInterview
		case page == PageStatus,
			status == applicant.StatusInterviewCompleted,
			status == applicant.StatusRejected,
			status == applicant.StatusOfferReleased:
			return ViewStatus
		case status == applicant.StatusOfferAccepted,
			status == applicant.StatusInProgress,
			status == applicant.StatusCompleted:
			return ViewDashboard
		}
	}

	return ViewHome
}
