package postgres

import (
	"context"

	"github.com/dom/diary-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type emotionKeywordRepository struct {
	db *gorm.DB
}

func NewEmotionKeywordRepository(db *gorm.DB) *emotionKeywordRepository {
	return &emotionKeywordRepository{db: db}
}

func (r *emotionKeywordRepository) GetByDiaryID(ctx context.Context, diaryID uuid.UUID) ([]*domain.EmotionKeyword, error) {
	var keywords []*domain.EmotionKeyword
	err := r.db.WithContext(ctx).
		Where("diary_id = ?", diaryID).
		Order("word").
		Find(&keywords).Error
	if err != nil {
		return nil, err
	}
	return keywords, nil
}
