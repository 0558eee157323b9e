package service

import (
	"context"
	"time"

	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/repository"
	"github.com/google/uuid"
)

// StatsService maintains per-period emotion frequencies for analysed diaries.
type StatsService struct {
	diaryRepo repository.DiaryRepository
	statRepo  repository.EmotionStatRepository
}

func NewStatsService(diaryRepo repository.DiaryRepository, statRepo repository.EmotionStatRepository) *StatsService {
	return &StatsService{
		diaryRepo: diaryRepo,
		statRepo:  statRepo,
	}
}

// Rollup recomputes the current day, week and month for every user with an
// analysed diary in that period, and for every user who already has rows for
// it. It returns the number of rows written.
func (s *StatsService) Rollup(ctx context.Context, now time.Time) (int, error) {
	written := 0
	for _, period := range domain.AllPeriodTypes {
		n, err := s.refresh(ctx, nil, period, now)
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

// ForUser refreshes the user's current period of the given type, then lists
// all of their stored statistics of that type, most recent period first.
func (s *StatsService) ForUser(ctx context.Context, userID uuid.UUID, period domain.PeriodType, now time.Time) ([]*domain.EmotionStat, error) {
	if !period.IsValid() {
		return nil, domain.ErrInvalidPeriod
	}
	if _, err := s.refresh(ctx, &userID, period, now); err != nil {
		return nil, err
	}
	return s.statRepo.GetByUserID(ctx, userID, period)
}

func (s *StatsService) refresh(ctx context.Context, userID *uuid.UUID, period domain.PeriodType, now time.Time) (int, error) {
	start, end, label := period.Bounds(now)

	counts, err := s.diaryRepo.CountEmotions(ctx, userID, start, end)
	if err != nil {
		return 0, err
	}

	byUser := make(map[uuid.UUID]map[domain.EmotionType]int)
	if userID != nil {
		byUser[*userID] = make(map[domain.EmotionType]int)
	} else {
		// users whose analysed diaries all lost their emotion still need zeroed rows
		existing, err := s.statRepo.UserIDsForPeriod(ctx, period, label)
		if err != nil {
			return 0, err
		}
		for _, uid := range existing {
			byUser[uid] = make(map[domain.EmotionType]int)
		}
	}
	for _, c := range counts {
		if byUser[c.UserID] == nil {
			byUser[c.UserID] = make(map[domain.EmotionType]int)
		}
		byUser[c.UserID][c.Emotion] = c.Count
	}

	// every emotion gets a row so a re-analysed diary can bring a count to zero
	stats := make([]*domain.EmotionStat, 0, len(byUser)*len(domain.EmotionTieBreakOrder))
	for uid, freq := range byUser {
		for _, emotion := range domain.EmotionTieBreakOrder {
			stats = append(stats, &domain.EmotionStat{
				ID:          uuid.New(),
				UserID:      uid,
				PeriodType:  period,
				PeriodValue: label,
				Emotion:     emotion,
				Frequency:   freq[emotion],
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}

	if err := s.statRepo.UpsertMany(ctx, stats); err != nil {
		return 0, err
	}
	return len(stats), nil
}
