package workflow

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

// Handlers contains HTTP handlers for assignments and notifications
type Handlers struct {
	engine *Engine
	logger *logger.Logger
}

// NewHandlers creates new workflow HTTP handlers
func NewHandlers(engine *Engine, log *logger.Logger) *Handlers {
	return &Handlers{
		engine: engine,
		logger: log,
	}
}

// RegisterRoutes registers workflow routes with the router
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/assignments", h.CreateAssignment).Methods("POST")
	router.HandleFunc("/api/v1/assignments", h.ListAssignments).Methods("GET")
	router.HandleFunc("/api/v1/assignments/status", h.UpdateStatus).Methods("POST")
	router.HandleFunc("/api/v1/notifications", h.ListNotifications).Methods("GET")
	router.HandleFunc("/api/v1/notifications/read", h.MarkNotificationRead).Methods("POST")
}

// CreateAssignment creates an assignment from the doctor's form submission.
func (h *Handlers) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/doctor", http.StatusSeeOther)
		return
	}

	req := CreateAssignmentRequest{
		PatientID:   r.PostFormValue("patient_id"),
		ServiceType: r.PostFormValue("service_type"),
		Status:      types.AssignmentStatus(r.PostFormValue("status")),
		Slots: types.AssignmentSlots{
			NurseID:       formSlot(r, "nurse_id"),
			RadiologistID: formSlot(r, "radiologist_id"),
			LabStaffID:    formSlot(r, "lab_staff_id"),
			PharmacistID:  formSlot(r, "pharmacist_id"),
		},
		Notes: formSlot(r, "notes"),
	}

	if _, err := h.engine.CreateAssignment(principal, req); err != nil {
		h.respondError(w, r, err, "/doctor")
		return
	}

	http.Redirect(w, r, "/doctor", http.StatusSeeOther)
}

// ListAssignments returns the caller's assignments as JSON.
func (h *Handlers) ListAssignments(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	assignments, err := h.engine.ListAssignments(principal)
	if err != nil {
		h.respondError(w, r, err, "/login")
		return
	}
	if assignments == nil {
		assignments = []*types.Assignment{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"assignments": assignments})
}

// UpdateStatus overwrites an assignment's status for a participating staff
// member.
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/staff", http.StatusSeeOther)
		return
	}

	assignmentID := strings.TrimSpace(r.PostFormValue("assignment_id"))
	status := types.AssignmentStatus(r.PostFormValue("status"))
	if assignmentID == "" {
		http.Redirect(w, r, "/staff", http.StatusSeeOther)
		return
	}

	if err := h.engine.UpdateStatus(principal, assignmentID, status); err != nil {
		h.respondError(w, r, err, "/staff")
		return
	}

	http.Redirect(w, r, "/staff", http.StatusSeeOther)
}

// ListNotifications returns the staff member's notification feed as JSON.
func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	notifications, err := h.engine.ListNotifications(principal, limit)
	if err != nil {
		h.respondError(w, r, err, "/login")
		return
	}
	if notifications == nil {
		notifications = []*types.Notification{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// MarkNotificationRead marks one notification as read and returns to the
// dashboard.
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	notificationID := strings.TrimSpace(r.PostFormValue("id"))
	if notificationID == "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := h.engine.MarkNotificationRead(principal, notificationID); err != nil {
		h.respondError(w, r, err, "/dashboard")
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// respondError maps service errors onto the form-flow conventions: missing
// authentication redirects to login, authorization failures return a 403 JSON
// body, everything else falls back to the caller's dashboard.
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case types.IsErrorType(err, types.ErrorTypeAuthentication):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case types.IsErrorType(err, types.ErrorTypeAuthorization):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
	case types.IsErrorType(err, types.ErrorTypeValidation), types.IsErrorType(err, types.ErrorTypeNotFound):
		http.Redirect(w, r, fallback, http.StatusSeeOther)
	default:
		h.logger.WithError(err).Error("Workflow operation failed")
		http.Redirect(w, r, fallback, http.StatusSeeOther)
	}
}

func formSlot(r *http.Request, field string) *string {
	value := strings.TrimSpace(r.PostFormValue(field))
	if value == "" {
		return nil
	}
	return &value
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
