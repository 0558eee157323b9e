package service_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/repository/postgres"
	"github.com/dom/diary-service/internal/service"
	"github.com/dom/diary-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	tagService := service.NewTagService(postgres.NewRepositories(testDB.DB).Tag)
	ctx := context.Background()

	tests := []struct {
		name     string
		input    string
		setup    func()
		wantName string
		wantErr  error
	}{
		{name: "plain name", input: "travel", wantName: "travel"},
		{name: "surrounding whitespace is trimmed", input: "  여행  ", wantName: "여행"},
		{name: "blank name", input: "   ", wantErr: domain.ErrTagNameRequired},
		{
			name:  "duplicate name",
			input: "work",
			setup: func() {
				testutil.NewTagBuilder().WithName("work").Build(t, testDB.DB)
			},
			wantErr: domain.ErrTagExists,
		},
		{
			name:     "long names are truncated",
			input:    strings.Repeat("가", 150),
			wantName: strings.Repeat("가", 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)
			if tt.setup != nil {
				tt.setup()
			}

			tag, err := tagService.Create(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, tag.Name)
			assert.LessOrEqual(t, utf8.RuneCountInString(tag.Name), 100)

			stored, err := tagService.Get(ctx, tag.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, stored.Name)
		})
	}
}

func TestTagService_ListGetDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	tagService := service.NewTagService(postgres.NewRepositories(testDB.DB).Tag)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	diary := testutil.NewDiaryBuilder(user).Build(t, testDB.DB)
	zebra := testutil.NewTagBuilder().WithName("zebra").Build(t, testDB.DB)
	testutil.NewTagBuilder().WithName("apple").Build(t, testDB.DB)
	testutil.LinkTag(t, testDB.DB, diary, zebra)

	tags, err := tagService.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "apple", tags[0].Name)
	assert.Equal(t, "zebra", tags[1].Name)

	_, err = tagService.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	require.NoError(t, tagService.Delete(ctx, zebra.ID))
	assert.ErrorIs(t, tagService.Delete(ctx, zebra.ID), domain.ErrTagNotFound)

	var links int64
	require.NoError(t, testDB.DB.Model(&domain.DiaryTag{}).Where("tag_id = ?", zebra.ID).Count(&links).Error)
	assert.Zero(t, links, "deleting a tag unlinks it from diaries")

	var diaries int64
	require.NoError(t, testDB.DB.Model(&domain.Diary{}).Where("id = ?", diary.ID).Count(&diaries).Error)
	assert.Equal(t, int64(1), diaries)
}
