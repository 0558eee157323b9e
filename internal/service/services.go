package service

import (
	"github.com/dom/diary-service/internal/ai"
	"github.com/dom/diary-service/internal/auth"
	"github.com/dom/diary-service/internal/config"
	"github.com/dom/diary-service/internal/repository"
)

type Services struct {
	Auth     *AuthService
	Diary    *DiaryService
	Analyzer *EmotionAnalyzer
	Tag      *TagService
	Stats    *StatsService
	Alert    *AlertService
	Tokens   *auth.TokenCodec
}

// NewServices wires the service layer. publisher may be nil, in which case
// alerts are only persisted.
func NewServices(repos *repository.Repositories, revocations auth.RevocationStore, generator ai.TextGenerator, publisher AlertPublisher, cfg *config.Config) (*Services, error) {
	codec, err := auth.NewTokenCodec(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenExpires, cfg.RefreshTokenExpires)
	if err != nil {
		return nil, err
	}

	analyzer := NewEmotionAnalyzer(generator)
	alerts := NewAlertService(repos.Alert, publisher)
	stats := NewStatsService(repos.Diary, repos.EmotionStat)

	return &Services{
		Auth:     NewAuthService(repos.User, revocations, codec),
		Diary:    NewDiaryService(repos.Diary, repos.Tag, repos.DiaryTag, analyzer, alerts),
		Analyzer: analyzer,
		Tag:      NewTagService(repos.Tag),
		Stats:    stats,
		Alert:    alerts,
		Tokens:   codec,
	}, nil
}
