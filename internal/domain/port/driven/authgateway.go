package driven

import "context"

// LoginResult is the normalized payload of a successful login call. Fields
// mirror the backend's data envelope after boundary validation; any of them
// may be empty when the backend omits the corresponding wire field, and
// callers check field-by-field.
type LoginResult struct {
	AccessToken string
	UserID      string
	Username    string
	Roles       []string
}

// AccountInfo is the normalized payload of a "who am I" call. Empty fields
// mean the backend omitted them; callers fall back to previously held values.
type AccountInfo struct {
	UserID   string
	Username string
	Roles    []string
}

// AuthGateway is the driven port for the backend's authentication surface.
// Implementations translate the internal identifier/secret shape to the wire
// shape and absorb the backend's response envelope.
type AuthGateway interface {
	// Login exchanges credentials for a bearer token and account fields.
	Login(ctx context.Context, usernameOrEmail, password string) (*LoginResult, error)

	// Logout notifies the backend. The response body is not interpreted;
	// only transport-level failure is reported.
	Logout(ctx context.Context) error

	// CurrentUser fetches the account behind the currently attached credential.
	CurrentUser(ctx context.Context) (*AccountInfo, error)
}
