package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PeriodType is the granularity of an emotion statistic.
type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
)

var AllPeriodTypes = []PeriodType{PeriodDaily, PeriodWeekly, PeriodMonthly}

func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// Bounds returns the half-open interval [start, end) of the period that
// contains t, and its label (2006-01-02, 2006-W01 or 2006-01).
func (p PeriodType) Bounds(t time.Time) (time.Time, time.Time, string) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch p {
	case PeriodWeekly:
		// ISO weeks start on Monday
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		year, week := start.ISOWeek()
		return start, start.AddDate(0, 0, 7), fmt.Sprintf("%d-W%02d", year, week)
	case PeriodMonthly:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return start, start.AddDate(0, 1, 0), start.Format("2006-01")
	default:
		return day, day.AddDate(0, 0, 1), day.Format("2006-01-02")
	}
}

// EmotionStat counts a user's analysed diaries per emotion within a period.
type EmotionStat struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_emotion_stats_period"`
	PeriodType  PeriodType  `json:"period_type" gorm:"type:varchar(10);not null;uniqueIndex:idx_emotion_stats_period"`
	PeriodValue string      `json:"period_value" gorm:"type:varchar(50);not null;uniqueIndex:idx_emotion_stats_period"`
	Emotion     EmotionType `json:"emotion" gorm:"type:varchar(10);not null;uniqueIndex:idx_emotion_stats_period"`
	Frequency   int         `json:"frequency" gorm:"not null"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (EmotionStat) TableName() string {
	return "emotion_stats"
}
