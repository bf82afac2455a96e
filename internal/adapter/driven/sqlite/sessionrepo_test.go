package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepo_WriteAndRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	err := repo.Write(ctx, "tok-abc123", `{"id":"7","username":"ada","name":"ada","role":"ROLE_STUDENT"}`)
	require.NoError(t, err)

	token, userJSON, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc123", token)
	assert.Equal(t, `{"id":"7","username":"ada","name":"ada","role":"ROLE_STUDENT"}`, userJSON)
}

func TestSessionRepo_ReadEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	token, userJSON, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token)
	assert.Equal(t, "", userJSON)
}

func TestSessionRepo_WriteOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, "old-token", `{"id":"1"}`))
	require.NoError(t, repo.Write(ctx, "new-token", `{"id":"2"}`))

	token, userJSON, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
	assert.Equal(t, `{"id":"2"}`, userJSON)
}

func TestSessionRepo_Clear(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, "tok", `{"id":"1"}`))
	require.NoError(t, repo.Clear(ctx))

	token, userJSON, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token)
	assert.Equal(t, "", userJSON)
}

func TestSessionRepo_ClearEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	assert.NoError(t, repo.Clear(ctx), "clearing an empty store should not error")
}

func TestSessionRepo_ClearTwice(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, "tok", `{"id":"1"}`))
	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))

	token, userJSON, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token)
	assert.Equal(t, "", userJSON)
}
