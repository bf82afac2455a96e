// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/classportal-dev/classportal/internal/application"
	"github.com/classportal-dev/classportal/internal/domain/port/driven"
)

// Handler is the JSON API driving adapter. It drives the session service for
// auth operations and the assignment client for coursework data.
type Handler struct {
	session     *application.Session
	assignments driven.AssignmentClient
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(session *application.Session, assignments driven.AssignmentClient, logger *slog.Logger) *Handler {
	return &Handler{
		session:     session,
		assignments: assignments,
		logger:      logger,
	}
}

// loginRequest is the JSON body for the login endpoint.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates against the backend and returns the established session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if _, err := h.session.Login(r.Context(), req.Username, req.Password); err != nil {
		h.logger.Warn("login failed", "username", req.Username, "error", err)
		// Only a backend rejection means bad credentials; a backend outage
		// or transport failure must not masquerade as one.
		var apiErr *driven.BackendError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			writeError(w, http.StatusUnauthorized, h.session.Err())
			return
		}
		writeUpstreamError(w, err)
		return
	}

	user, _ := h.session.User()
	writeJSON(w, http.StatusOK, toSessionResponse(h.session.Token(), user))
}

// Logout tears down the session. Local teardown always succeeds, so this
// endpoint never reports failure.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current user, re-validating the held credential against the
// backend first.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	if !h.session.CheckAuth(r.Context()) {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, _ := h.session.User()
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Assignments lists the current student's assignments.
func (h *Handler) Assignments(w http.ResponseWriter, r *http.Request) {
	if !h.session.IsAuthenticated() {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", 10)

	result, err := h.assignments.MyAssignments(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("list assignments", "error", err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAssignmentPageResponse(result))
}

// Submission returns the graded result for one submission.
func (h *Handler) Submission(w http.ResponseWriter, r *http.Request) {
	if !h.session.IsAuthenticated() {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "submission id is required")
		return
	}

	result, err := h.assignments.SubmissionResult(r.Context(), id)
	if err != nil {
		h.logger.Error("fetch submission result", "submission_id", id, "error", err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionResponse(result))
}

// Health is the liveness endpoint used by the healthcheck binary.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse())
}

// queryInt parses a positive integer query parameter, falling back to def on
// absence or garbage.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
