package handlers

import (
	"net/http"
	"time"

	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Emotions lists the caller's emotion frequencies. period defaults to daily.
func (h *StatsHandler) Emotions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	period := domain.PeriodType(r.URL.Query().Get("period"))
	if period == "" {
		period = domain.PeriodDaily
	}

	stats, err := h.statsService.ForUser(r.Context(), userID, period, time.Now())
	if err != nil {
		handleServiceError(w, "handlers.EmotionStats", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
