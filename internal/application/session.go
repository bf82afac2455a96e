// Package application contains the application services that sit between the
// driving surfaces and the driven ports.
package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/classportal-dev/classportal/internal/domain/model"
	"github.com/classportal-dev/classportal/internal/domain/port/driven"
)

// undefinedSentinel marks a persisted entry written as the literal string
// "undefined" by a broken writer; it is treated the same as an absent entry.
const undefinedSentinel = "undefined"

// loginFallbackError is the user-facing message when a login failure carries
// no message of its own.
const loginFallbackError = "login failed"

// Session owns the in-memory authentication state: the current user, the
// bearer credential, a loading flag, and the last user-facing error. It is
// constructed once in the composition root and injected into every consumer.
//
// The mutex guards field access only. Concurrent Login/Logout/CheckAuth calls
// are not serialized against each other: whichever network response resolves
// last determines the final state. That race is inherited behavior, kept
// deliberately rather than strengthened.
type Session struct {
	mu      sync.RWMutex
	gateway driven.AuthGateway
	store   driven.SessionStore
	logger  *slog.Logger

	user    *model.User
	token   string
	loading bool
	lastErr string
}

// NewSession creates a Session backed by the given gateway and store.
func NewSession(gateway driven.AuthGateway, store driven.SessionStore, logger *slog.Logger) *Session {
	return &Session{
		gateway: gateway,
		store:   store,
		logger:  logger,
	}
}

// Init restores the session from the persisted record. A record with either
// entry missing, equal to the "undefined" sentinel, or holding an unparsable
// user is treated as no session and fully cleared rather than partially
// restored. Init is idempotent given stable storage. Only a storage read
// failure is returned as an error.
func (s *Session) Init(ctx context.Context) error {
	token, userJSON, err := s.store.Read(ctx)
	if err != nil {
		return err
	}

	if token == "" || userJSON == "" || token == undefinedSentinel || userJSON == undefinedSentinel {
		s.ClearAuth(ctx)
		return nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		s.logger.Warn("persisted user record unparsable, clearing session", "error", err)
		s.ClearAuth(ctx)
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Login authenticates against the backend and, on success, stores the
// credential and derived user in memory and in the persistent store, then
// returns the gateway result to the caller. On failure the last error is set
// to the failure's message and the failure is returned after state is updated.
// The loading flag is released on every exit path.
func (s *Session) Login(ctx context.Context, identifier, secret string) (*driven.LoginResult, error) {
	s.setLoading(true)
	s.setError("")
	defer s.setLoading(false)

	result, err := s.gateway.Login(ctx, identifier, secret)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = loginFallbackError
		}
		s.setError(msg)
		return nil, err
	}

	// First-listed role wins when the backend reports several.
	role := ""
	if len(result.Roles) > 0 {
		role = result.Roles[0]
	}

	user := model.User{
		ID:          result.UserID,
		Username:    result.Username,
		DisplayName: result.Username,
		Role:        role,
	}

	s.mu.Lock()
	s.token = result.AccessToken
	s.user = &user
	s.mu.Unlock()

	s.persist(ctx, result.AccessToken, user)
	return result, nil
}

// Logout tears the session down. The backend is notified best-effort; a
// failure there is logged and never blocks local teardown, because local
// state is the source of truth for "am I logged in".
func (s *Session) Logout(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.gateway.Logout(ctx); err != nil {
		s.logger.Warn("backend logout failed, clearing local session anyway", "error", err)
	}

	s.ClearAuth(ctx)
}

// ClearAuth synchronously resets user, credential, and error, and clears the
// persistent store. It never fails and clearing twice is a no-op.
func (s *Session) ClearAuth(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("clear persisted session", "error", err)
	}
}

// CheckAuth verifies that the held credential is still accepted by the
// backend. With no credential it returns false without any network call. On a
// well-formed response the user fields are refreshed, falling back to the
// previously held value for any field the backend omits, and the record is
// re-persisted. Any failure or malformed response clears the session.
func (s *Session) CheckAuth(ctx context.Context) bool {
	if s.Token() == "" {
		return false
	}

	info, err := s.gateway.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("auth check failed", "error", err)
		s.ClearAuth(ctx)
		return false
	}

	s.mu.Lock()
	var merged model.User
	if s.user != nil {
		merged = *s.user
	}
	if info.UserID != "" {
		merged.ID = info.UserID
	}
	if info.Username != "" {
		merged.Username = info.Username
		merged.DisplayName = info.Username
	}
	if len(info.Roles) > 0 && info.Roles[0] != "" {
		merged.Role = info.Roles[0]
	}
	s.user = &merged
	token := s.token
	s.mu.Unlock()

	s.persist(ctx, token, merged)
	return true
}

// RefreshToken is intentionally unimplemented: the backend offers no refresh
// endpoint. It always reports false and never mutates session state.
func (s *Session) RefreshToken(ctx context.Context) bool {
	return false
}

// IsAuthenticated reports whether both a credential and a user are held.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// IsStudent reports whether the current user holds the student role.
func (s *Session) IsStudent() bool {
	user, ok := s.User()
	return ok && user.IsStudent()
}

// IsTeacher reports whether the current user holds a teaching role.
func (s *Session) IsTeacher() bool {
	user, ok := s.User()
	return ok && user.IsTeacher()
}

// User returns a copy of the current user and whether one is held.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// Token returns the currently held credential, empty when absent.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Loading reports whether a login/logout/check call is in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last user-facing error message, empty when none.
func (s *Session) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// persist writes the record through the store. Persistence failure does not
// invalidate the in-memory session; it is logged and the session stands.
func (s *Session) persist(ctx context.Context, token string, user model.User) {
	userJSON, err := json.Marshal(user)
	if err != nil {
		s.logger.Error("encode user record", "error", err)
		return
	}
	if err := s.store.Write(ctx, token, string(userJSON)); err != nil {
		s.logger.Error("persist session", "error", err)
	}
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Session) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}
