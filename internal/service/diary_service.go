package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/logger"
	"github.com/dom/diary-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiaryService manages diary entries. Every operation is scoped to the
// calling user: another user's diary behaves as if it did not exist.
type DiaryService struct {
	diaryRepo    repository.DiaryRepository
	tagRepo      repository.TagRepository
	diaryTagRepo repository.DiaryTagRepository
	analyzer     *EmotionAnalyzer
	alerts       *AlertService
}

func NewDiaryService(
	diaryRepo repository.DiaryRepository,
	tagRepo repository.TagRepository,
	diaryTagRepo repository.DiaryTagRepository,
	analyzer *EmotionAnalyzer,
	alerts *AlertService,
) *DiaryService {
	return &DiaryService{
		diaryRepo:    diaryRepo,
		tagRepo:      tagRepo,
		diaryTagRepo: diaryTagRepo,
		analyzer:     analyzer,
		alerts:       alerts,
	}
}

type CreateDiaryInput struct {
	Title   string
	Content string
	Mood    domain.Mood
}

// AnalyzeResult is the diary after analysis together with what the model
// returned.
type AnalyzeResult struct {
	Diary    *domain.Diary
	Analysis *EmotionAnalysis
}

func (s *DiaryService) Create(ctx context.Context, userID uuid.UUID, input CreateDiaryInput) (*domain.Diary, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrTitleRequired
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrContentRequired
	}
	if !input.Mood.IsValid() {
		return nil, domain.ErrInvalidMood
	}

	now := time.Now()
	diary := &domain.Diary{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           input.Title,
		Content:         input.Content,
		Mood:            input.Mood,
		CreatedAt:       now,
		UpdatedAt:       now,
		EmotionKeywords: []domain.EmotionKeyword{},
	}
	if err := s.diaryRepo.Create(ctx, diary); err != nil {
		return nil, err
	}
	return diary, nil
}

func (s *DiaryService) Get(ctx context.Context, userID, diaryID uuid.UUID) (*domain.Diary, error) {
	diary, err := s.diaryRepo.GetByIDForUser(ctx, diaryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDiaryNotFound
		}
		return nil, err
	}
	return diary, nil
}

// List returns the user's diaries, newest first unless sort is Oldest. A
// non-empty tag keeps only diaries linked to the tag of that name.
func (s *DiaryService) List(ctx context.Context, userID uuid.UUID, sort domain.DiarySort, tag string) ([]*domain.Diary, error) {
	if sort == "" {
		sort = domain.DiarySortLatest
	}
	if !sort.IsValid() {
		return nil, domain.ErrInvalidSort
	}
	return s.diaryRepo.List(ctx, domain.DiaryFilter{
		UserID: userID,
		Tag:    strings.TrimSpace(tag),
		Sort:   sort,
	})
}

// Update applies only the fields present in patch.
func (s *DiaryService) Update(ctx context.Context, userID, diaryID uuid.UUID, patch domain.DiaryPatch) (*domain.Diary, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.ErrTitleRequired
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, domain.ErrContentRequired
	}
	if patch.Mood != nil && !patch.Mood.IsValid() {
		return nil, domain.ErrInvalidMood
	}

	diary, err := s.Get(ctx, userID, diaryID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		diary.Title = *patch.Title
	}
	if patch.Content != nil {
		diary.Content = *patch.Content
	}
	if patch.Mood != nil {
		diary.Mood = *patch.Mood
	}
	diary.UpdatedAt = time.Now()

	if err := s.diaryRepo.Update(ctx, diary); err != nil {
		return nil, err
	}
	return diary, nil
}

func (s *DiaryService) Delete(ctx context.Context, userID, diaryID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, diaryID); err != nil {
		return err
	}
	if err := s.diaryRepo.Delete(ctx, diaryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDiaryNotFound
		}
		return err
	}
	return nil
}

// Summarize generates a short summary of the diary and stores it in the
// diary's emotion_summary.
func (s *DiaryService) Summarize(ctx context.Context, userID, diaryID uuid.UUID) (string, error) {
	diary, err := s.Get(ctx, userID, diaryID)
	if err != nil {
		return "", err
	}

	summary, err := s.analyzer.Summarize(ctx, diary.Content)
	if err != nil {
		return "", err
	}

	if err := diary.SetSummary(summary); err != nil {
		return "", err
	}
	diary.UpdatedAt = time.Now()
	if err := s.diaryRepo.Update(ctx, diary); err != nil {
		return "", err
	}

	s.notify(ctx, userID, "'"+diary.Title+"' 일기 요약이 완료되었습니다.")
	return summary, nil
}

// Analyze replaces the diary's emotion keywords with a fresh analysis and
// sets its overall emotion. When the model output cannot be parsed the
// keywords are cleared, the emotion is unset and the failure is reported in
// the result.
func (s *DiaryService) Analyze(ctx context.Context, userID, diaryID uuid.UUID) (*AnalyzeResult, error) {
	diary, err := s.Get(ctx, userID, diaryID)
	if err != nil {
		return nil, err
	}

	analysis, err := s.analyzer.AnalyzeEmotion(ctx, diary.ID, userID, diary.Content)
	if err != nil {
		return nil, err
	}

	keywords := ValidKeywords(diary.ID, analysis.Keywords)
	emotion := AggregateEmotion(keywords)

	if err := s.diaryRepo.ReplaceEmotionAnalysis(ctx, diary.ID, keywords, emotion); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDiaryNotFound
		}
		return nil, err
	}

	updated, err := s.Get(ctx, userID, diaryID)
	if err != nil {
		return nil, err
	}

	if analysis.Failed() {
		s.notify(ctx, userID, "'"+diary.Title+"' 일기 감정 분석에 실패했습니다.")
	} else {
		s.notify(ctx, userID, "'"+diary.Title+"' 일기 감정 분석이 완료되었습니다.")
	}

	return &AnalyzeResult{Diary: updated, Analysis: analysis}, nil
}

// AddTag links an existing tag to the diary. Adding a linked tag again is a
// no-op.
func (s *DiaryService) AddTag(ctx context.Context, userID, diaryID, tagID uuid.UUID) ([]*domain.Tag, error) {
	if _, err := s.Get(ctx, userID, diaryID); err != nil {
		return nil, err
	}
	if _, err := s.tagRepo.GetByID(ctx, tagID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	if err := s.diaryTagRepo.Add(ctx, diaryID, tagID); err != nil {
		return nil, err
	}
	return s.diaryTagRepo.GetTagsByDiaryID(ctx, diaryID)
}

func (s *DiaryService) RemoveTag(ctx context.Context, userID, diaryID, tagID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, diaryID); err != nil {
		return err
	}
	removed, err := s.diaryTagRepo.Remove(ctx, diaryID, tagID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrTagNotFound
	}
	return nil
}

func (s *DiaryService) ListTags(ctx context.Context, userID, diaryID uuid.UUID) ([]*domain.Tag, error) {
	if _, err := s.Get(ctx, userID, diaryID); err != nil {
		return nil, err
	}
	return s.diaryTagRepo.GetTagsByDiaryID(ctx, diaryID)
}

func (s *DiaryService) notify(ctx context.Context, userID uuid.UUID, content string) {
	if s.alerts == nil {
		return
	}
	if _, err := s.alerts.Notify(ctx, userID, content); err != nil {
		logger.Error("failed to record alert", logger.Fields{"user_id": userID.String(), "error": err})
	}
}
