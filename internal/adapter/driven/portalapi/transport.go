// Package portalapi implements the AuthGateway and AssignmentClient ports
// against the education backend's HTTP API.
package portalapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gregjones/httpcache"

	"github.com/classportal-dev/classportal/internal/domain/port/driven"
)

// undefinedSentinel is the literal string a broken writer may have persisted
// in place of a real value. It is never attached as a credential.
const undefinedSentinel = "undefined"

// Compile-time interface satisfaction check.
var _ http.RoundTripper = (*Transport)(nil)

// Transport is the shared request pipeline wrapped around every backend call:
//
//  1. outbound: the persisted credential, when present, is attached as an
//     Authorization bearer header; requests without a credential pass through
//     unchanged so login itself is never blocked.
//  2. inbound: a 401 response clears the persisted credential immediately and
//     invokes the injected onAuthFailure action, then surfaces the original
//     response to the caller unmodified.
//  3. beneath the auth stage sits an httpcache memory cache transport for
//     conditional GET caching.
//
// Optional traffic logging is gated by debug and never alters control flow.
type Transport struct {
	base          http.RoundTripper
	store         driven.SessionStore
	onAuthFailure func()
	logger        *slog.Logger
	debug         bool
}

// NewTransport creates the transport pipeline. onAuthFailure is invoked on
// every 401 response after the persisted credential has been cleared; pass nil
// when no reaction beyond the clear is wanted.
func NewTransport(store driven.SessionStore, onAuthFailure func(), logger *slog.Logger, debug bool) *Transport {
	return &Transport{
		base:          httpcache.NewMemoryCacheTransport(),
		store:         store,
		onAuthFailure: onAuthFailure,
		logger:        logger,
		debug:         debug,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(req.Context())

	token, _, err := t.store.Read(req.Context())
	if err != nil {
		// An unreadable store degrades to an unauthenticated call; the
		// backend rejects it if the endpoint needed a credential.
		t.logger.Warn("credential read failed, sending unauthenticated", "error", err)
		token = ""
	}
	if token != "" && token != undefinedSentinel {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	var requestID string
	if t.debug {
		requestID = uuid.NewString()
		t.logger.Debug("portal api request",
			"request_id", requestID,
			"method", out.Method,
			"url", out.URL.String(),
			"authenticated", token != "" && token != undefinedSentinel,
		)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		if t.debug {
			t.logger.Debug("portal api transport error",
				"request_id", requestID,
				"url", out.URL.String(),
				"error", err,
			)
		}
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if clearErr := t.store.Clear(req.Context()); clearErr != nil {
			t.logger.Error("clear credential after 401", "error", clearErr)
		} else {
			t.logger.Warn("authorization failed, credential cleared", "url", out.URL.Path)
		}
		if t.onAuthFailure != nil {
			t.onAuthFailure()
		}
	}

	if t.debug {
		t.logger.Debug("portal api response",
			"request_id", requestID,
			"status", resp.StatusCode,
			"url", out.URL.String(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	}

	return resp, nil
}
