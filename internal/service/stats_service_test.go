package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/repository/postgres"
	"github.com/dom/diary-service/internal/service"
	"github.com/dom/diary-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frequencies(stats []*domain.EmotionStat) map[domain.EmotionType]int {
	out := make(map[domain.EmotionType]int, len(stats))
	for _, s := range stats {
		out[s.Emotion] = s.Frequency
	}
	return out
}

func TestStatsService_ForUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	statsService := service.NewStatsService(repos.Diary, repos.EmotionStat)
	ctx := context.Background()

	now := time.Now()
	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	testutil.NewDiaryBuilder(user).WithEmotion(domain.EmotionPositive).CreatedAt(now).Build(t, testDB.DB)
	testutil.NewDiaryBuilder(user).WithEmotion(domain.EmotionPositive).CreatedAt(now).Build(t, testDB.DB)
	sad := testutil.NewDiaryBuilder(user).WithEmotion(domain.EmotionNegative).CreatedAt(now).Build(t, testDB.DB)
	testutil.NewDiaryBuilder(user).CreatedAt(now).Build(t, testDB.DB)
	testutil.NewDiaryBuilder(user).WithEmotion(domain.EmotionNeutral).CreatedAt(now.AddDate(0, -2, 0)).Build(t, testDB.DB)
	testutil.NewDiaryBuilder(other).WithEmotion(domain.EmotionNegative).CreatedAt(now).Build(t, testDB.DB)

	for _, period := range domain.AllPeriodTypes {
		t.Run(string(period), func(t *testing.T) {
			stats, err := statsService.ForUser(ctx, user.ID, period, now)
			require.NoError(t, err)
			require.Len(t, stats, 3)

			_, _, label := period.Bounds(now)
			for _, s := range stats {
				assert.Equal(t, user.ID, s.UserID)
				assert.Equal(t, period, s.PeriodType)
				assert.Equal(t, label, s.PeriodValue)
			}
			assert.Equal(t, map[domain.EmotionType]int{
				domain.EmotionPositive: 2,
				domain.EmotionNegative: 1,
				domain.EmotionNeutral:  0,
			}, frequencies(stats))
		})
	}

	t.Run("counts follow re-analysis", func(t *testing.T) {
		require.NoError(t, repos.Diary.ReplaceEmotionAnalysis(ctx, sad.ID, nil, nil))

		stats, err := statsService.ForUser(ctx, user.ID, domain.PeriodDaily, now)
		require.NoError(t, err)
		assert.Equal(t, 0, frequencies(stats)[domain.EmotionNegative])
		assert.Equal(t, 2, frequencies(stats)[domain.EmotionPositive])
	})

	t.Run("user without diaries gets zero rows", func(t *testing.T) {
		empty, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

		stats, err := statsService.ForUser(ctx, empty.ID, domain.PeriodMonthly, now)
		require.NoError(t, err)
		require.Len(t, stats, 3)
		for _, s := range stats {
			assert.Zero(t, s.Frequency)
		}
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := statsService.ForUser(ctx, user.ID, "yearly", now)
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	})
}

func TestStatsService_Rollup(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	statsService := service.NewStatsService(repos.Diary, repos.EmotionStat)
	ctx := context.Background()

	now := time.Now()
	alice, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	idle, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	testutil.NewDiaryBuilder(alice).WithEmotion(domain.EmotionPositive).CreatedAt(now).Build(t, testDB.DB)
	testutil.NewDiaryBuilder(bob).WithEmotion(domain.EmotionNegative).CreatedAt(now).Build(t, testDB.DB)
	testutil.NewDiaryBuilder(idle).CreatedAt(now).Build(t, testDB.DB)

	rows, err := statsService.Rollup(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2*3*len(domain.AllPeriodTypes), rows)

	rows, err = statsService.Rollup(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2*3*len(domain.AllPeriodTypes), rows)

	var stored int64
	require.NoError(t, testDB.DB.Model(&domain.EmotionStat{}).Count(&stored).Error)
	assert.Equal(t, int64(2*3*len(domain.AllPeriodTypes)), stored, "rollup is idempotent")

	bobWeekly, err := repos.EmotionStat.GetByUserID(ctx, bob.ID, domain.PeriodWeekly)
	require.NoError(t, err)
	assert.Equal(t, 1, frequencies(bobWeekly)[domain.EmotionNegative])

	idleDaily, err := repos.EmotionStat.GetByUserID(ctx, idle.ID, domain.PeriodDaily)
	require.NoError(t, err)
	assert.Empty(t, idleDaily, "users without analysed diaries are skipped")
}

func TestStatsService_RollupZeroesClearedAnalysis(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	statsService := service.NewStatsService(repos.Diary, repos.EmotionStat)
	ctx := context.Background()

	now := time.Now()
	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	diary := testutil.NewDiaryBuilder(user).WithEmotion(domain.EmotionNegative).CreatedAt(now).Build(t, testDB.DB)

	_, err := statsService.Rollup(ctx, now)
	require.NoError(t, err)

	require.NoError(t, repos.Diary.ReplaceEmotionAnalysis(ctx, diary.ID, nil, nil))

	rows, err := statsService.Rollup(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3*len(domain.AllPeriodTypes), rows)

	for _, period := range domain.AllPeriodTypes {
		t.Run(string(period), func(t *testing.T) {
			stats, err := repos.EmotionStat.GetByUserID(ctx, user.ID, period)
			require.NoError(t, err)
			require.Len(t, stats, 3)
			for _, s := range stats {
				assert.Zero(t, s.Frequency, s.Emotion)
			}
		})
	}
}
