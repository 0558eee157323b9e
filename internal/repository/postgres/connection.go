package postgres

import (
	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the service owns, in dependency order.
var Models = []interface{}{
	&domain.User{},
	&domain.Diary{},
	&domain.EmotionKeyword{},
	&domain.Tag{},
	&domain.DiaryTag{},
	&domain.AlertLog{},
	&domain.EmotionStat{},
	&domain.RevokedToken{},
}

func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:           NewUserRepository(db),
		Diary:          NewDiaryRepository(db),
		EmotionKeyword: NewEmotionKeywordRepository(db),
		Tag:            NewTagRepository(db),
		DiaryTag:       NewDiaryTagRepository(db),
		Alert:          NewAlertRepository(db),
		EmotionStat:    NewEmotionStatRepository(db),
		RevokedToken:   NewRevokedTokenRepository(db),
	}
}
