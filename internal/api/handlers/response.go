package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/diary-service/internal/api/middleware"
	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("[handlers.writeJSON] failed to encode response", logger.Fields{"error": err})
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, status, errorResponse{Detail: detail})
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the response for a failed service call. Internal
// errors are logged and hidden from the client.
func handleServiceError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		logger.Error("["+op+"] internal error", logger.Fields{"error": err})
		writeError(w, status, "Internal server error")
	case http.StatusBadGateway:
		logger.Error("["+op+"] external service failed", logger.Fields{"error": err})
		writeError(w, status, "External service error")
	default:
		writeError(w, status, err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
		return uuid.Nil, false
	}
	return userID, true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		// an unparseable id cannot exist
		writeError(w, http.StatusNotFound, notFound.Error())
		return uuid.Nil, false
	}
	return id, true
}
