package domain

import (
	"strings"

	"github.com/google/uuid"
)

// EmotionType is the three-class sentiment label attached to keywords and
// aggregated onto diaries.
type EmotionType string

const (
	EmotionPositive EmotionType = "positive"
	EmotionNegative EmotionType = "negative"
	EmotionNeutral  EmotionType = "neutral"
)

// EmotionTieBreakOrder lists the classes from highest to lowest preference
// when counts are equal.
var EmotionTieBreakOrder = []EmotionType{EmotionNegative, EmotionPositive, EmotionNeutral}

func (e EmotionType) IsValid() bool {
	switch e {
	case EmotionPositive, EmotionNegative, EmotionNeutral:
		return true
	}
	return false
}

// emotionVocabulary maps the labels an AI model may return onto EmotionType.
// Keys are lower-cased.
var emotionVocabulary = map[string]EmotionType{
	"긍정":       EmotionPositive,
	"positive": EmotionPositive,
	"pos":      EmotionPositive,
	"부정":       EmotionNegative,
	"negative": EmotionNegative,
	"neg":      EmotionNegative,
	"중립":       EmotionNeutral,
	"neutral":  EmotionNeutral,
	"neu":      EmotionNeutral,
}

// ParseEmotion maps a Korean or English emotion label onto EmotionType.
func ParseEmotion(label string) (EmotionType, bool) {
	e, ok := emotionVocabulary[strings.ToLower(strings.TrimSpace(label))]
	return e, ok
}

// EmotionKeyword is one word extracted from a diary by emotion analysis.
type EmotionKeyword struct {
	ID      uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DiaryID uuid.UUID   `json:"diary_id" gorm:"type:uuid;not null;index"`
	Word    string      `json:"word" gorm:"type:varchar(100);not null"`
	Emotion EmotionType `json:"emotion" gorm:"type:varchar(10);not null"`

	Diary *Diary `json:"-" gorm:"foreignKey:DiaryID;constraint:OnDelete:CASCADE"`
}

func (EmotionKeyword) TableName() string {
	return "emotion_keywords"
}
