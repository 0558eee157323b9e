package domain

import (
	"time"

	"github.com/google/uuid"
)

// AlertLog is a notification delivered to a user, e.g. when an AI summary
// or emotion analysis for one of their diaries has finished.
type AlertLog struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (AlertLog) TableName() string {
	return "alert_logs"
}
