package postgres

import (
	"context"

	"github.com/dom/diary-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type emotionStatRepository struct {
	db *gorm.DB
}

func NewEmotionStatRepository(db *gorm.DB) *emotionStatRepository {
	return &emotionStatRepository{db: db}
}

func (r *emotionStatRepository) UpsertMany(ctx context.Context, stats []*domain.EmotionStat) error {
	if len(stats) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "period_type"},
				{Name: "period_value"},
				{Name: "emotion"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"frequency", "updated_at"}),
		}).
		Create(stats).Error
}

func (r *emotionStatRepository) GetByUserID(ctx context.Context, userID uuid.UUID, periodType domain.PeriodType) ([]*domain.EmotionStat, error) {
	var stats []*domain.EmotionStat
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND period_type = ?", userID, periodType).
		Order("period_value DESC, emotion").
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// UserIDsForPeriod lists the users that already have rows for one period.
func (r *emotionStatRepository) UserIDsForPeriod(ctx context.Context, periodType domain.PeriodType, periodValue string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.EmotionStat{}).
		Where("period_type = ? AND period_value = ?", periodType, periodValue).
		Distinct().
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
