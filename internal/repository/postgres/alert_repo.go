package postgres

import (
	"context"

	"github.com/dom/diary-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *alertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *domain.AlertLog) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// GetByUserID returns the newest alerts first. A non-positive limit returns all of them.
func (r *alertRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.AlertLog, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var alerts []*domain.AlertLog
	if err := q.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}
