package httphandler

import "net/http"

// RegisterAPIRoutes registers all JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/v1/auth/me", h.Me)
	mux.HandleFunc("GET /api/v1/assignments", h.Assignments)
	mux.HandleFunc("GET /api/v1/submissions/{id}/result", h.Submission)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}
