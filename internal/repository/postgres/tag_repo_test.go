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
	"gorm.io/gorm"
)

func TestTagRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewTagRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Tag{ID: uuid.New(), Name: "books", CreatedAt: time.Now()}))

	err := repo.Create(ctx, &domain.Tag{ID: uuid.New(), Name: "books", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestDiaryTagRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewDiaryTagRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	diary := testutil.NewDiaryBuilder(user).Build(t, testDB.DB)
	music := testutil.NewTagBuilder().WithName("music").Build(t, testDB.DB)
	art := testutil.NewTagBuilder().WithName("art").Build(t, testDB.DB)

	require.NoError(t, repo.Add(ctx, diary.ID, music.ID))
	require.NoError(t, repo.Add(ctx, diary.ID, music.ID), "duplicate links are ignored")
	require.NoError(t, repo.Add(ctx, diary.ID, art.ID))

	tags, err := repo.GetTagsByDiaryID(ctx, diary.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "art", tags[0].Name)
	assert.Equal(t, "music", tags[1].Name)

	removed, err := repo.Remove(ctx, diary.ID, music.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, diary.ID, music.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	tags, err = repo.GetTagsByDiaryID(ctx, diary.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, art.ID, tags[0].ID)
}
