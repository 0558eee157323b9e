package service

import (
	"context"
	"time"

	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/logger"
	"github.com/dom/diary-service/internal/repository"
	"github.com/dom/diary-service/internal/websocket"
	"github.com/google/uuid"
)

const defaultAlertLimit = 50

// AlertPublisher pushes a message to a user's live connections.
type AlertPublisher interface {
	SendToUser(userID uuid.UUID, msg *websocket.Message) error
}

type AlertService struct {
	alertRepo repository.AlertRepository
	publisher AlertPublisher
}

func NewAlertService(alertRepo repository.AlertRepository, publisher AlertPublisher) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		publisher: publisher,
	}
}

// Notify stores the alert, then pushes it to the user if they are connected.
// A failed push does not fail the call.
func (s *AlertService) Notify(ctx context.Context, userID uuid.UUID, content string) (*domain.AlertLog, error) {
	alert := &domain.AlertLog{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		msg, err := websocket.NewMessage(websocket.MessageTypeAlert, websocket.AlertPayload{
			ID:        alert.ID,
			Content:   alert.Content,
			CreatedAt: alert.CreatedAt,
		})
		if err == nil {
			err = s.publisher.SendToUser(userID, msg)
		}
		if err != nil {
			logger.Warn("failed to push alert", logger.Fields{"user_id": userID.String(), "error": err})
		}
	}

	return alert, nil
}

func (s *AlertService) List(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.AlertLog, error) {
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	return s.alertRepo.GetByUserID(ctx, userID, limit)
}
