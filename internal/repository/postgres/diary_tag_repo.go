package postgres

import (
	"context"
	"time"

	"github.com/dom/diary-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type diaryTagRepository struct {
	db *gorm.DB
}

func NewDiaryTagRepository(db *gorm.DB) *diaryTagRepository {
	return &diaryTagRepository{db: db}
}

// Add links a tag to a diary. Linking an already linked pair is a no-op.
func (r *diaryTagRepository) Add(ctx context.Context, diaryID, tagID uuid.UUID) error {
	link := &domain.DiaryTag{
		DiaryID:   diaryID,
		TagID:     tagID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link).Error
}

func (r *diaryTagRepository) Remove(ctx context.Context, diaryID, tagID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("diary_id = ? AND tag_id = ?", diaryID, tagID).
		Delete(&domain.DiaryTag{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *diaryTagRepository) GetTagsByDiaryID(ctx context.Context, diaryID uuid.UUID) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN diary_tags ON diary_tags.tag_id = tags.id").
		Where("diary_tags.diary_id = ?", diaryID).
		Order("tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}
