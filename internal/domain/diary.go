package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Mood is the user-chosen mood recorded with a diary entry.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodNeutral Mood = "neutral"
	MoodAngry   Mood = "angry"
)

func (m Mood) IsValid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodNeutral, MoodAngry:
		return true
	}
	return false
}

// DiarySort selects the creation-time ordering of diary listings.
type DiarySort string

const (
	DiarySortLatest DiarySort = "Latest"
	DiarySortOldest DiarySort = "Oldest"
)

func (s DiarySort) IsValid() bool {
	return s == DiarySortLatest || s == DiarySortOldest
}

type Diary struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID         uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Title          string         `json:"title" gorm:"type:varchar(255);not null"`
	Content        string         `json:"content" gorm:"type:text;not null"`
	Mood           Mood           `json:"mood" gorm:"type:varchar(10);not null"`
	Emotion        *EmotionType   `json:"emotion" gorm:"type:varchar(10)"`
	EmotionSummary datatypes.JSON `json:"emotion_summary" gorm:"type:jsonb"`
	CreatedAt      time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time      `json:"updated_at"`

	User            *User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	EmotionKeywords []EmotionKeyword `json:"emotion_keywords" gorm:"foreignKey:DiaryID"`
}

func (Diary) TableName() string {
	return "diaries"
}

// DiarySummary is the shape stored in Diary.EmotionSummary.
type DiarySummary struct {
	SummaryText string `json:"summary_text"`
}

// SetSummary stores text as the diary's AI summary.
func (d *Diary) SetSummary(text string) error {
	raw, err := json.Marshal(DiarySummary{SummaryText: text})
	if err != nil {
		return err
	}
	d.EmotionSummary = datatypes.JSON(raw)
	return nil
}

// Summary returns the stored AI summary, or "" when none has been generated.
func (d *Diary) Summary() string {
	if len(d.EmotionSummary) == 0 {
		return ""
	}
	var s DiarySummary
	if err := json.Unmarshal(d.EmotionSummary, &s); err != nil {
		return ""
	}
	return s.SummaryText
}

// DiaryPatch carries the diary fields a caller explicitly provided.
type DiaryPatch struct {
	Title   *string
	Content *string
	Mood    *Mood
}

// DiaryFilter narrows diary listings.
type DiaryFilter struct {
	UserID uuid.UUID
	Tag    string
	Sort   DiarySort
}

// EmotionCount is the number of analysed diaries a user has for one emotion.
type EmotionCount struct {
	UserID  uuid.UUID
	Emotion EmotionType
	Count   int
}
