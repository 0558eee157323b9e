package postgres

import (
	"context"
	"time"

	"github.com/dom/diary-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type revokedTokenRepository struct {
	db *gorm.DB
}

func NewRevokedTokenRepository(db *gorm.DB) *revokedTokenRepository {
	return &revokedTokenRepository{db: db}
}

// Revoke records the token. The first expiry recorded for a token wins.
func (r *revokedTokenRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	entry := &domain.RevokedToken{
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry).Error
}

func (r *revokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RevokedToken{}).
		Where("token = ?", token).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *revokedTokenRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&domain.RevokedToken{})
	return result.RowsAffected, result.Error
}
