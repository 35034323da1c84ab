// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer, plus the server-rendered
// board pages.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
	"github.com/Shivanand-hulikatti/activity-board/internal/repository"
	"github.com/Shivanand-hulikatti/activity-board/internal/service"
)

// RequestRecorder counts finished API operations.
type RequestRecorder interface {
	RequestCompleted(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RequestCompleted(string, string) {}

// ActivityHandler holds the HTTP handlers for the activities API.
type ActivityHandler struct {
	svc      *service.ActivityService
	recorder RequestRecorder
	logger   *slog.Logger
}

// NewActivityHandler constructs an ActivityHandler. recorder may be nil.
func NewActivityHandler(svc *service.ActivityService, recorder RequestRecorder, logger *slog.Logger) *ActivityHandler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ActivityHandler{svc: svc, recorder: recorder, logger: logger}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Detail: msg})
}

// participantError maps service and repository errors to a status and the
// detail shown to the caller.
func participantError(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "Activity not found"
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return http.StatusBadRequest, "Student is already signed up"
	case errors.Is(err, repository.ErrActivityFull):
		return http.StatusBadRequest, "Activity is full"
	case errors.Is(err, repository.ErrNotRegistered):
		return http.StatusBadRequest, "Student is not signed up for this activity"
	case errors.Is(err, service.ErrEmailRequired):
		return http.StatusBadRequest, "email is required"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// activityParam returns the decoded {name} segment. chi matches on the raw
// path when the request escaped a reserved character such as "/", and then
// hands back the escaped form.
func activityParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

func outcomeFor(status int) string {
	switch {
	case status < 300:
		return "success"
	case status == http.StatusNotFound:
		return "not_found"
	case status < 500:
		return "rejected"
	default:
		return "error"
	}
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// ListActivities handles GET /activities
// Returns the catalog as a JSON object keyed by activity name, in catalog
// order.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.svc.ListActivities(r.Context())
	if err != nil {
		h.logger.Error("failed to list activities", "error", err)
		h.recorder.RequestCompleted("list", outcomeFor(http.StatusInternalServerError))
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}

	h.recorder.RequestCompleted("list", outcomeFor(http.StatusOK))
	writeJSON(w, http.StatusOK, catalog)
}

// Signup handles POST /activities/{name}/signup?email=
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := activityParam(r)
	email := r.URL.Query().Get("email")

	msg, err := h.svc.Signup(r.Context(), name, email)
	if err != nil {
		h.fail(w, "signup", err)
		return
	}

	h.recorder.RequestCompleted("signup", outcomeFor(http.StatusOK))
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

// Unregister handles DELETE /activities/{name}/unregister?email=
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name := activityParam(r)
	email := r.URL.Query().Get("email")

	msg, err := h.svc.Unregister(r.Context(), name, email)
	if err != nil {
		h.fail(w, "unregister", err)
		return
	}

	h.recorder.RequestCompleted("unregister", outcomeFor(http.StatusOK))
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

func (h *ActivityHandler) fail(w http.ResponseWriter, op string, err error) {
	status, detail := participantError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("activity operation failed", "operation", op, "error", err)
	}
	h.recorder.RequestCompleted(op, outcomeFor(status))
	writeError(w, status, detail)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound answers unknown routes with the API's error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found")
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}
