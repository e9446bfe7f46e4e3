package directory

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/carelink/hms-core/internal/auth"
	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/types"
)

// Handlers contains HTTP handlers for account administration
type Handlers struct {
	service *Service
	logger  *logger.Logger
}

// NewHandlers creates new directory HTTP handlers
func NewHandlers(service *Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers account administration routes with the router
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/admin/staff", h.RegisterStaff).Methods("POST")
	router.HandleFunc("/api/v1/admin/patients", h.RegisterPatient).Methods("POST")
}

// RegisterStaff creates a staff account. Admin only.
func (h *Handlers) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := auth.Authorize(principal, types.RoleAdmin); err != nil {
		writeForbidden(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin?error=invalid+form", http.StatusSeeOther)
		return
	}

	req := RegisterStaffRequest{
		Name:     r.PostFormValue("name"),
		Role:     types.StaffRole(r.PostFormValue("role")),
		Category: optionalField(r.PostFormValue("category")),
		Username: r.PostFormValue("username"),
		Email:    optionalField(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	if _, err := h.service.RegisterStaff(req); err != nil {
		h.logger.WithError(err).Warn("Staff registration failed")
		http.Redirect(w, r, "/admin?error="+registrationError(err), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin?created=staff", http.StatusSeeOther)
}

// RegisterPatient creates a patient account. Admin only.
func (h *Handlers) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := auth.Authorize(principal, types.RoleAdmin); err != nil {
		writeForbidden(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin?error=invalid+form", http.StatusSeeOther)
		return
	}

	req := RegisterPatientRequest{
		Name:     r.PostFormValue("name"),
		Gender:   optionalField(r.PostFormValue("gender")),
		Phone:    optionalField(r.PostFormValue("phone")),
		Address:  optionalField(r.PostFormValue("address")),
		Username: r.PostFormValue("username"),
		Email:    optionalField(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if ageValue := r.PostFormValue("age"); ageValue != "" {
		if age, err := strconv.Atoi(ageValue); err == nil {
			req.Age = &age
		}
	}

	if _, err := h.service.RegisterPatient(req); err != nil {
		h.logger.WithError(err).Warn("Patient registration failed")
		http.Redirect(w, r, "/admin?error="+registrationError(err), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin?created=patient", http.StatusSeeOther)
}

func optionalField(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func registrationError(err error) string {
	if types.IsErrorType(err, types.ErrorTypeValidation) {
		return "invalid+input"
	}
	return "registration+failed"
}

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(map[string]string{"error": "Forbidden"})
}
