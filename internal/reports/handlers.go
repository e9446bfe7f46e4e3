package reports

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/carelink/hms-core/internal/auth"
	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/types"
)

// maxUploadBytes caps a report attachment at 20 MiB.
const maxUploadBytes = 20 << 20

// Handlers contains HTTP handlers for report operations
type Handlers struct {
	service *Service
	logger  *logger.Logger
}

// NewHandlers creates new report HTTP handlers
func NewHandlers(service *Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers report routes with the router
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/reports", h.AddReport).Methods("POST")
	router.HandleFunc("/api/v1/reports", h.ListReports).Methods("GET")
}

// AddReport files a report from a staff form submission, optionally with an
// attached file. Clients sending Accept: application/json get a JSON result;
// the form flow gets a redirect.
func (h *Handlers) AddReport(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Redirect(w, r, "/staff", http.StatusSeeOther)
		return
	}

	req := AddReportRequest{
		PatientID:  r.PostFormValue("patient_id"),
		ReportType: r.PostFormValue("report_type"),
		Summary:    r.PostFormValue("summary"),
	}
	if link := strings.TrimSpace(r.PostFormValue("file_url")); link != "" {
		req.FileURL = &link
	}

	if file, header, err := r.FormFile("file"); err == nil && header.Size > 0 {
		defer file.Close()
		req.Upload = &Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     file,
		}
	}

	if _, err := h.service.AddReport(principal, req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}
	http.Redirect(w, r, "/staff", http.StatusSeeOther)
}

// ListReports returns a patient's reports as JSON.
func (h *Handlers) ListReports(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	patientID := strings.TrimSpace(r.URL.Query().Get("patient_id"))
	if patientID == "" && principal != nil && !principal.IsStaff() {
		patientID = principal.Patient.ID
	}
	if patientID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "patient_id is required"})
		return
	}

	reports, err := h.service.ListReportsForPatient(principal, patientID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if reports == nil {
		reports = []*types.Report{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case types.IsErrorType(err, types.ErrorTypeAuthentication):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case types.IsErrorType(err, types.ErrorTypeAuthorization):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
	case types.IsErrorType(err, types.ErrorTypeValidation):
		http.Redirect(w, r, "/staff", http.StatusSeeOther)
	default:
		h.logger.WithError(err).Error("Report operation failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
