package domain

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

// DiaryTag links a diary to a tag. The composite primary key keeps each
// (diary, tag) pair unique.
type DiaryTag struct {
	DiaryID   uuid.UUID `json:"diary_id" gorm:"type:uuid;primaryKey"`
	TagID     uuid.UUID `json:"tag_id" gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`

	Diary *Diary `json:"-" gorm:"foreignKey:DiaryID;constraint:OnDelete:CASCADE"`
	Tag   *Tag   `json:"-" gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

func (DiaryTag) TableName() string {
	return "diary_tags"
}
