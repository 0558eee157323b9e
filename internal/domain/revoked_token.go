package domain

import "time"

// RevokedToken records an access token invalidated before its expiry.
type RevokedToken struct {
	Token     string    `gorm:"type:text;primaryKey"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
