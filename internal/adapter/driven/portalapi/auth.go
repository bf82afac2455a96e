package portalapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/classportal-dev/classportal/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AuthGateway = (*Client)(nil)

// authEnvelope is the wrapper the auth backend family puts around every
// response body. Data is a pointer so a missing envelope field is
// distinguishable from an empty one.
type authEnvelope struct {
	Data    *authData `json:"data"`
	Success bool      `json:"success"`
	Message string    `json:"message"`
}

// authData is the payload inside an auth envelope. userId arrives as a JSON
// number; it is stringified at this boundary because the internal model treats
// ids as opaque strings. Any field may be absent; callers above check
// field-by-field.
type authData struct {
	AccessToken string      `json:"accessToken"`
	UserID      json.Number `json:"userId"`
	Username    string      `json:"username"`
	Roles       []string    `json:"roles"`
}

// loginRequest is the wire shape of a login call.
type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// Login exchanges credentials for a bearer token via POST /auth/login.
// An envelope without a data field is rejected as malformed; an incomplete
// data field (including empty roles) is tolerated and passed up as-is.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*driven.LoginResult, error) {
	var envelope authEnvelope
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{
		UsernameOrEmail: usernameOrEmail,
		Password:        password,
	}, &envelope)
	if err != nil {
		return nil, err
	}

	if envelope.Data == nil {
		return nil, fmt.Errorf("login response has no data field")
	}

	return &driven.LoginResult{
		AccessToken: envelope.Data.AccessToken,
		UserID:      envelope.Data.UserID.String(),
		Username:    envelope.Data.Username,
		Roles:       envelope.Data.Roles,
	}, nil
}

// Logout notifies the backend via POST /auth/logout. The response body is
// deliberately not interpreted; only transport-level failure is returned, and
// the caller tears down local state either way.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// CurrentUser fetches the account behind the attached credential via
// GET /auth/me. The response uses the same envelope family as login.
func (c *Client) CurrentUser(ctx context.Context) (*driven.AccountInfo, error) {
	var envelope authEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &envelope); err != nil {
		return nil, err
	}

	if envelope.Data == nil {
		return nil, fmt.Errorf("current user response has no data field")
	}

	return &driven.AccountInfo{
		UserID:   envelope.Data.UserID.String(),
		Username: envelope.Data.Username,
		Roles:    envelope.Data.Roles,
	}, nil
}
