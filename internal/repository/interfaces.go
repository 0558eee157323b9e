package repository

import (
	"context"
	"time"

	"github.com/dom/diary-service/internal/auth"
	"github.com/dom/diary-service/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DiaryRepository interface {
	Create(ctx context.Context, diary *domain.Diary) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Diary, error)
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Diary, error)
	List(ctx context.Context, filter domain.DiaryFilter) ([]*domain.Diary, error)
	Update(ctx context.Context, diary *domain.Diary) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ReplaceEmotionAnalysis deletes the diary's keywords, inserts the new
	// set and stores the aggregated emotion in one transaction.
	ReplaceEmotionAnalysis(ctx context.Context, diaryID uuid.UUID, keywords []*domain.EmotionKeyword, emotion *domain.EmotionType) error
	CountEmotions(ctx context.Context, userID *uuid.UUID, from, to time.Time) ([]domain.EmotionCount, error)
}

type EmotionKeywordRepository interface {
	GetByDiaryID(ctx context.Context, diaryID uuid.UUID) ([]*domain.EmotionKeyword, error)
}

type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	GetAll(ctx context.Context) ([]*domain.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DiaryTagRepository interface {
	Add(ctx context.Context, diaryID, tagID uuid.UUID) error
	Remove(ctx context.Context, diaryID, tagID uuid.UUID) (bool, error)
	GetTagsByDiaryID(ctx context.Context, diaryID uuid.UUID) ([]*domain.Tag, error)
}

type AlertRepository interface {
	Create(ctx context.Context, alert *domain.AlertLog) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.AlertLog, error)
}

type EmotionStatRepository interface {
	UpsertMany(ctx context.Context, stats []*domain.EmotionStat) error
	GetByUserID(ctx context.Context, userID uuid.UUID, periodType domain.PeriodType) ([]*domain.EmotionStat, error)
	UserIDsForPeriod(ctx context.Context, periodType domain.PeriodType, periodValue string) ([]uuid.UUID, error)
}

// RevokedTokenRepository is the durable revocation store.
type RevokedTokenRepository interface {
	auth.RevocationStore
	auth.RevocationPurger
}

type Repositories struct {
	User           UserRepository
	Diary          DiaryRepository
	EmotionKeyword EmotionKeywordRepository
	Tag            TagRepository
	DiaryTag       DiaryTagRepository
	Alert          AlertRepository
	EmotionStat    EmotionStatRepository
	RevokedToken   RevokedTokenRepository
}
