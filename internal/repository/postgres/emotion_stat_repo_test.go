package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/repository/postgres"
	"github.com/dom/diary-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmotionStatRepository_UpsertMany(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewEmotionStatRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	stat := func(period string, emotion domain.EmotionType, freq int) *domain.EmotionStat {
		return &domain.EmotionStat{
			ID:          uuid.New(),
			UserID:      user.ID,
			PeriodType:  domain.PeriodDaily,
			PeriodValue: period,
			Emotion:     emotion,
			Frequency:   freq,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
	}

	require.NoError(t, repo.UpsertMany(ctx, nil))
	require.NoError(t, repo.UpsertMany(ctx, []*domain.EmotionStat{
		stat("2024-05-01", domain.EmotionPositive, 1),
		stat("2024-05-02", domain.EmotionPositive, 4),
		stat("2024-05-02", domain.EmotionNegative, 2),
	}))
	require.NoError(t, repo.UpsertMany(ctx, []*domain.EmotionStat{
		stat("2024-05-02", domain.EmotionPositive, 5),
	}))

	got, err := repo.GetByUserID(ctx, user.ID, domain.PeriodDaily)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "2024-05-02", got[0].PeriodValue)
	assert.Equal(t, domain.EmotionNegative, got[0].Emotion)
	assert.Equal(t, 2, got[0].Frequency)

	assert.Equal(t, "2024-05-02", got[1].PeriodValue)
	assert.Equal(t, domain.EmotionPositive, got[1].Emotion)
	assert.Equal(t, 5, got[1].Frequency, "upsert overwrites the frequency")

	assert.Equal(t, "2024-05-01", got[2].PeriodValue)

	weekly, err := repo.GetByUserID(ctx, user.ID, domain.PeriodWeekly)
	require.NoError(t, err)
	assert.Empty(t, weekly)

	t.Run("user ids for a period", func(t *testing.T) {
		ids, err := repo.UserIDsForPeriod(ctx, domain.PeriodDaily, "2024-05-02")
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{user.ID}, ids, "one entry per user")

		ids, err = repo.UserIDsForPeriod(ctx, domain.PeriodDaily, "2024-06-01")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
