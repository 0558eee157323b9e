package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dom/diary-service/internal/ai"
	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/logger"
	"github.com/google/uuid"
)

// AnalysisParseError marks an emotion analysis whose model output was not
// the requested JSON.
const AnalysisParseError = "json_parse_error"

const maxKeywordRunes = 100

const summarizePrompt = `다음 일기 내용을 2~3줄로 요약해주세요:

%s

요약:`

const analyzePrompt = `다음 일기 내용을 분석해서 감정을 나타내는 핵심 키워드를 추출해주세요.
각 키워드의 감정은 "긍정", "부정", "중립" 중 하나로 분류해주세요.
설명 없이 아래 형식의 JSON만 응답해주세요.

{"diary_id": %q, "user_id": %q, "keywords": [{"word": "키워드", "emotion": "긍정"}]}

일기 내용:
%s`

// KeywordResult is one keyword as reported by the model, before validation.
type KeywordResult struct {
	Word    string `json:"word"`
	Emotion string `json:"emotion"`
}

// EmotionAnalysis is the outcome of one analysis call. When the model output
// cannot be parsed, Error is AnalysisParseError and RawText holds the
// response as received.
type EmotionAnalysis struct {
	DiaryID  uuid.UUID       `json:"diary_id"`
	UserID   uuid.UUID       `json:"user_id"`
	Keywords []KeywordResult `json:"keywords"`
	Error    string          `json:"error,omitempty"`
	RawText  string          `json:"raw_text,omitempty"`
}

func (a *EmotionAnalysis) Failed() bool {
	return a.Error != ""
}

type EmotionAnalyzer struct {
	generator ai.TextGenerator
}

func NewEmotionAnalyzer(generator ai.TextGenerator) *EmotionAnalyzer {
	return &EmotionAnalyzer{generator: generator}
}

// Summarize asks the model for a two to three line summary of content.
func (a *EmotionAnalyzer) Summarize(ctx context.Context, content string) (string, error) {
	text, err := a.generate(ctx, fmt.Sprintf(summarizePrompt, content))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// AnalyzeEmotion extracts emotion keywords from content. A malformed model
// response is reported in the returned analysis, not as an error.
func (a *EmotionAnalyzer) AnalyzeEmotion(ctx context.Context, diaryID, userID uuid.UUID, content string) (*EmotionAnalysis, error) {
	text, err := a.generate(ctx, fmt.Sprintf(analyzePrompt, diaryID.String(), userID.String(), content))
	if err != nil {
		return nil, err
	}

	analysis := &EmotionAnalysis{DiaryID: diaryID, UserID: userID}

	var parsed struct {
		Keywords []KeywordResult `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &parsed); err != nil {
		logger.Warn("emotion analysis response is not valid JSON", logger.Fields{
			"diary_id": diaryID.String(),
			"error":    err,
		})
		analysis.Error = AnalysisParseError
		analysis.RawText = text
		return analysis, nil
	}

	analysis.Keywords = parsed.Keywords
	if analysis.Keywords == nil {
		analysis.Keywords = []KeywordResult{}
	}
	return analysis, nil
}

func (a *EmotionAnalyzer) generate(ctx context.Context, prompt string) (string, error) {
	if a.generator == nil {
		return "", fmt.Errorf("%w: no text generator configured", domain.ErrExternalService)
	}
	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	return text, nil
}

// ValidKeywords converts the model's keywords into records for diaryID,
// dropping entries with an empty word or an unrecognised emotion label.
func ValidKeywords(diaryID uuid.UUID, results []KeywordResult) []*domain.EmotionKeyword {
	keywords := make([]*domain.EmotionKeyword, 0, len(results))
	for _, r := range results {
		word := strings.TrimSpace(r.Word)
		if word == "" {
			continue
		}
		emotion, ok := domain.ParseEmotion(r.Emotion)
		if !ok {
			logger.Warn("dropping keyword with unknown emotion", logger.Fields{
				"diary_id": diaryID.String(),
				"word":     word,
				"emotion":  r.Emotion,
			})
			continue
		}
		if utf8.RuneCountInString(word) > maxKeywordRunes {
			word = string([]rune(word)[:maxKeywordRunes])
		}
		keywords = append(keywords, &domain.EmotionKeyword{
			ID:      uuid.New(),
			DiaryID: diaryID,
			Word:    word,
			Emotion: emotion,
		})
	}
	return keywords
}

// AggregateEmotion picks the emotion with the most keywords. Ties go to
// negative, then positive, then neutral. No keywords yields nil.
func AggregateEmotion(keywords []*domain.EmotionKeyword) *domain.EmotionType {
	counts := make(map[domain.EmotionType]int, len(domain.EmotionTieBreakOrder))
	for _, k := range keywords {
		counts[k.Emotion]++
	}

	var best *domain.EmotionType
	bestCount := 0
	for _, e := range domain.EmotionTieBreakOrder {
		if counts[e] > bestCount {
			best = &e
			bestCount = counts[e]
		}
	}
	return best
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if i := strings.Index(text, "\n"); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
