// Package driven defines the driven ports (outbound dependencies) of the
// application core.
package driven

import "context"

// SessionStore is the driven port for persisting the login credential and the
// serialized user record across restarts. It is a dumb string mirror: the
// application layer owns JSON encoding, sentinel checks, and deciding when a
// partially-present record counts as "no session".
type SessionStore interface {
	// Read returns the stored token and serialized user record.
	// Absent entries come back as empty strings, not errors.
	Read(ctx context.Context) (token, userJSON string, err error)

	// Write replaces both entries together. A reader never observes one
	// entry updated without the other.
	Write(ctx context.Context, token, userJSON string) error

	// Clear removes both entries unconditionally. Clearing an already-empty
	// store is a no-op, never an error; Clear may race with itself (the
	// transport's authorization-failure handler also clears).
	Clear(ctx context.Context) error
}
