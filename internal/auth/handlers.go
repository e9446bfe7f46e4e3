package auth

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/monitoring"
	"github.com/carelink/hms-core/pkg/types"
)

// CredentialStore is the slice of the directory the authentication entry
// needs: account lookup by login name or verified federated email.
type CredentialStore interface {
	GetStaffByUsername(username string) (*types.StaffAccount, error)
	GetStaffByEmail(email string) (*types.StaffAccount, error)
	GetPatientByUsername(username string) (*types.PatientAccount, error)
	GetPatientByEmail(email string) (*types.PatientAccount, error)
}

// Handlers contains HTTP handlers for authentication operations
type Handlers struct {
	sessions     *SessionManager
	credentials  CredentialStore
	passwords    *PasswordManager
	identity     *IdentityVerifier
	logger       *logger.Logger
	cookieName   string
	secureCookie bool
}

// NewHandlers creates new authentication HTTP handlers
func NewHandlers(
	sessions *SessionManager,
	credentials CredentialStore,
	passwords *PasswordManager,
	identity *IdentityVerifier,
	log *logger.Logger,
	cookieName string,
	secureCookie bool,
) *Handlers {
	return &Handlers{
		sessions:     sessions,
		credentials:  credentials,
		passwords:    passwords,
		identity:     identity,
		logger:       log,
		cookieName:   cookieName,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers authentication routes with the router
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/api/v1/auth/logout", h.Logout).Methods("POST")
	router.HandleFunc("/api/v1/auth/callback", h.Callback).Methods("GET")
}

// Login handles credential authentication. Every failure path redirects back
// to the login page without distinguishing unknown users from bad passwords.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	userType := r.PostFormValue("user_type")
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		monitoring.RecordAuthAttempt("password", "invalid")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	switch types.PrincipalKind(userType) {
	case types.KindStaff:
		staff, err := h.credentials.GetStaffByUsername(username)
		if err != nil || !h.passwords.VerifyPassword(staff.PasswordHash, password) {
			h.rejectLogin(w, r, username)
			return
		}
		h.establishSession(w, r, types.KindStaff, staff.ID)

	case types.KindPatient:
		patient, err := h.credentials.GetPatientByUsername(username)
		if err != nil || !h.passwords.VerifyPassword(patient.PasswordHash, password) {
			h.rejectLogin(w, r, username)
			return
		}
		h.establishSession(w, r, types.KindPatient, patient.ID)

	default:
		monitoring.RecordAuthAttempt("password", "invalid")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// Callback handles the federated identity return leg. The provider hands
// back a signed ID token whose email is matched against staff first, then
// patients.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	idToken := r.URL.Query().Get("token")
	if idToken == "" {
		http.Redirect(w, r, "/login?error=missing+token", http.StatusSeeOther)
		return
	}

	email, err := h.identity.VerifyIDToken(idToken)
	if err != nil {
		h.logger.WithError(err).Warn("Federated identity verification failed")
		monitoring.RecordAuthAttempt("federated", "failure")
		http.Redirect(w, r, "/login?error=authentication+failed", http.StatusSeeOther)
		return
	}

	if staff, err := h.credentials.GetStaffByEmail(email); err == nil {
		h.establishSession(w, r, types.KindStaff, staff.ID)
		return
	}

	if patient, err := h.credentials.GetPatientByEmail(email); err == nil {
		h.establishSession(w, r, types.KindPatient, patient.ID)
		return
	}

	monitoring.RecordAuthAttempt("federated", "unknown_user")
	http.Redirect(w, r, "/login?error=user+not+found", http.StatusSeeOther)
}

// Logout revokes the cookie's session and clears the cookie. Both steps are
// idempotent.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Revoke(cookie.Value); err != nil {
			h.logger.WithError(err).Error("Failed to revoke session on logout")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookie,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// establishSession issues a session and sets the HTTP-only cookie carrying
// the raw token. The cookie expiry matches the session's absolute expiry.
func (h *Handlers) establishSession(w http.ResponseWriter, r *http.Request, kind types.PrincipalKind, principalID string) {
	token, session, err := h.sessions.Issue(kind, principalID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue session")
		monitoring.RecordAuthAttempt("password", "store_failure")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookie,
	})

	monitoring.RecordAuthAttempt("password", "success")
	h.logger.Audit(principalID, "login", "session", true, map[string]interface{}{"kind": kind})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// rejectLogin handles a failed credential check without leaking whether the
// account exists.
func (h *Handlers) rejectLogin(w http.ResponseWriter, r *http.Request, username string) {
	monitoring.RecordAuthAttempt("password", "failure")
	h.logger.Security("login_failed", "", map[string]interface{}{"username": username})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
