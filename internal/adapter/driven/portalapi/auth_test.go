package portalapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classportal-dev/classportal/internal/domain/port/driven"
)

func newTestClient(t *testing.T, store *fakeStore, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	transport := NewTransport(store, nil, slog.Default(), false)
	return NewClient(srv.URL, transport, 5*time.Second)
}

func TestLogin_MapsEnvelopeToResult(t *testing.T) {
	var gotBody map[string]string
	client := newTestClient(t, &fakeStore{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {"accessToken": "T", "userId": 7, "username": "ada", "roles": ["ROLE_STUDENT"]},
			"success": true,
			"message": "ok"
		}`))
	}))

	result, err := client.Login(context.Background(), "ada", "secret")

	require.NoError(t, err)
	assert.Equal(t, "T", result.AccessToken)
	assert.Equal(t, "7", result.UserID, "numeric userId is stringified at the boundary")
	assert.Equal(t, "ada", result.Username)
	assert.Equal(t, []string{"ROLE_STUDENT"}, result.Roles)

	assert.Equal(t, "ada", gotBody["usernameOrEmail"])
	assert.Equal(t, "secret", gotBody["password"])
}

func TestLogin_EmptyRoles_Tolerated(t *testing.T) {
	client := newTestClient(t, &fakeStore{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"accessToken": "T", "userId": 7, "username": "ada", "roles": []}, "success": true}`))
	}))

	result, err := client.Login(context.Background(), "ada", "secret")

	require.NoError(t, err)
	assert.Empty(t, result.Roles)
}

func TestLogin_IncompleteData_Tolerated(t *testing.T) {
	client := newTestClient(t, &fakeStore{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"accessToken": "T"}, "success": true}`))
	}))

	result, err := client.Login(context.Background(), "ada", "secret")

	require.NoError(t, err)
	assert.Equal(t, "T", result.AccessToken)
	assert.Equal(t, "", result.UserID)
	assert.Equal(t, "", result.Username)
}

func TestLogin_MissingData_Rejected(t *testing.T) {
	client := newTestClient(t, &fakeStore{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "message": "ok"}`))
	}))

	_, err := client.Login(context.Background(), "ada", "secret")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data field")
}

func TestLogin_BackendError_CarriesEnvelopeMessage(t *testing.T) {
	client := newTestClient(t, &fakeStore{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success": false, "message": "用户名或密码错误"}`))
	}))

	_, err := client.Login(context.Background(), "ada", "wrong")

	require.Error(t, err)
	var apiErr *driven.BackendError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "用户名或密码错误", apiErr.Message)
	assert.Equal(t, "用户名或密码错误", err.Error())
}

func TestLogin_BackendError_NoMessage_GenericError(t *testing.T) {
	client := newTestClient(t, &fakeStore{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.Login(context.Background(), "ada", "secret")

	var apiErr *driven.BackendError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "500")
}

func TestLogout_IgnoresResponseBody(t *testing.T) {
	client := newTestClient(t, &fakeStore{token: "T"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		require.Equal(t, "Bearer T", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`this is not json`))
	}))

	err := client.Logout(context.Background())

	assert.NoError(t, err)
}

func TestLogout_TransportFailure_Propagated(t *testing.T) {
	store := &fakeStore{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening
	transport := NewTransport(store, nil, slog.Default(), false)
	client := NewClient(srv.URL, transport, time.Second)

	err := client.Logout(context.Background())

	assert.Error(t, err)
}

func TestCurrentUser_MapsEnvelope(t *testing.T) {
	client := newTestClient(t, &fakeStore{token: "T"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/auth/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"data": {"userId": 7, "username": "ada", "roles": ["ROLE_STUDENT"]}}`))
	}))

	info, err := client.CurrentUser(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "7", info.UserID)
	assert.Equal(t, "ada", info.Username)
	assert.Equal(t, []string{"ROLE_STUDENT"}, info.Roles)
}

func TestCurrentUser_MissingData_Rejected(t *testing.T) {
	client := newTestClient(t, &fakeStore{token: "T"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true}`))
	}))

	_, err := client.CurrentUser(context.Background())

	require.Error(t, err)
}

func TestCurrentUser_StaleCredential_ClearedByPipeline(t *testing.T) {
	store := &fakeStore{token: "stale", userJSON: `{"id":"7"}`}
	client := newTestClient(t, store, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success": false, "message": "token expired"}`))
	}))

	_, err := client.CurrentUser(context.Background())

	require.Error(t, err)
	var apiErr *driven.BackendError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "", store.token, "401 clears the persisted credential regardless of caller")
	assert.Equal(t, 1, store.clears)
}
