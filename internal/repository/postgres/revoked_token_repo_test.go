package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/diary-service/internal/repository/postgres"
	"github.com/dom/diary-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokedTokenRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewRevokedTokenRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now()

	revoked, err := repo.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "token-a", now.Add(-time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "token-a", now.Add(-time.Hour)), "revoke is idempotent")
	require.NoError(t, repo.Revoke(ctx, "token-b", now.Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "token-c", time.Time{}))

	for _, token := range []string{"token-a", "token-b", "token-c"} {
		revoked, err := repo.IsRevoked(ctx, token)
		require.NoError(t, err)
		assert.True(t, revoked, token)
	}

	purged, err := repo.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	for _, token := range []string{"token-a", "token-c"} {
		revoked, err := repo.IsRevoked(ctx, token)
		require.NoError(t, err)
		assert.False(t, revoked, token)
	}

	revoked, err = repo.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.True(t, revoked)
}
