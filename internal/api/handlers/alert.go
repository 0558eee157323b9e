package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/diary-service/internal/service"
)

type AlertHandler struct {
	alertService *service.AlertService
}

func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	alerts, err := h.alertService.List(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, "handlers.ListAlerts", err)
		return
	}

	writeJSON(w, http.StatusOK, alerts)
}
