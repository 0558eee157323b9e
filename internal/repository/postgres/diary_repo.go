package postgres

import (
	"context"
	"time"

	"github.com/dom/diary-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type diaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) *diaryRepository {
	return &diaryRepository{db: db}
}

func (r *diaryRepository) Create(ctx context.Context, diary *domain.Diary) error {
	return r.db.WithContext(ctx).Omit("EmotionKeywords").Create(diary).Error
}

func (r *diaryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Diary, error) {
	var diary domain.Diary
	err := r.db.WithContext(ctx).
		Preload("EmotionKeywords").
		First(&diary, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &diary, nil
}

func (r *diaryRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Diary, error) {
	var diary domain.Diary
	err := r.db.WithContext(ctx).
		Preload("EmotionKeywords").
		Where("id = ? AND user_id = ?", id, userID).
		First(&diary).Error
	if err != nil {
		return nil, err
	}
	return &diary, nil
}

func (r *diaryRepository) List(ctx context.Context, filter domain.DiaryFilter) ([]*domain.Diary, error) {
	q := r.db.WithContext(ctx).
		Preload("EmotionKeywords").
		Where("diaries.user_id = ?", filter.UserID)

	if filter.Tag != "" {
		q = q.Joins("JOIN diary_tags ON diary_tags.diary_id = diaries.id").
			Joins("JOIN tags ON tags.id = diary_tags.tag_id").
			Where("tags.name = ?", filter.Tag)
	}

	if filter.Sort == domain.DiarySortOldest {
		q = q.Order("diaries.created_at ASC")
	} else {
		q = q.Order("diaries.created_at DESC")
	}

	var diaries []*domain.Diary
	if err := q.Find(&diaries).Error; err != nil {
		return nil, err
	}
	return diaries, nil
}

func (r *diaryRepository) Update(ctx context.Context, diary *domain.Diary) error {
	return r.db.WithContext(ctx).
		Model(diary).
		Select("title", "content", "mood", "emotion_summary", "updated_at").
		Updates(diary).Error
}

func (r *diaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Diary{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *diaryRepository) ReplaceEmotionAnalysis(ctx context.Context, diaryID uuid.UUID, keywords []*domain.EmotionKeyword, emotion *domain.EmotionType) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("diary_id = ?", diaryID).Delete(&domain.EmotionKeyword{}).Error; err != nil {
			return err
		}

		if len(keywords) > 0 {
			for _, k := range keywords {
				k.DiaryID = diaryID
			}
			if err := tx.Create(keywords).Error; err != nil {
				return err
			}
		}

		var value interface{} = gorm.Expr("NULL")
		if emotion != nil {
			value = *emotion
		}
		result := tx.Model(&domain.Diary{}).
			Where("id = ?", diaryID).
			Updates(map[string]interface{}{"emotion": value, "updated_at": time.Now()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *diaryRepository) CountEmotions(ctx context.Context, userID *uuid.UUID, from, to time.Time) ([]domain.EmotionCount, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Diary{}).
		Select("user_id, emotion, COUNT(*) AS count").
		Where("emotion IS NOT NULL AND created_at >= ? AND created_at < ?", from, to)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var counts []domain.EmotionCount
	if err := q.Group("user_id, emotion").Order("user_id, emotion").Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
