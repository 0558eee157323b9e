package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Nickname     string     `json:"nickname" gorm:"type:varchar(100);not null"`
	Name         string     `json:"name" gorm:"type:varchar(100);not null"`
	PhoneNumber  string     `json:"phone_number" gorm:"type:varchar(20);not null"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserPatch carries the profile fields a caller explicitly provided.
// Nil fields are left untouched.
type UserPatch struct {
	Nickname    *string
	Name        *string
	PhoneNumber *string
}

// Apply merges the patch into u and reports whether anything changed.
func (p UserPatch) Apply(u *User) bool {
	changed := false
	if p.Nickname != nil {
		u.Nickname = *p.Nickname
		changed = true
	}
	if p.Name != nil {
		u.Name = *p.Name
		changed = true
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
		changed = true
	}
	return changed
}
