package handlers

import (
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/dom/diary-service/internal/api/middleware"
	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/service"
)

const RefreshTokenCookie = "refresh_token"

type UserHandler struct {
	authService  *service.AuthService
	cookieSecure bool
}

func NewUserHandler(authService *service.AuthService, cookieSecure bool) *UserHandler {
	return &UserHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
	}
}

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Nickname    string `json:"nickname"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateProfileRequest struct {
	Nickname    *string `json:"nickname"`
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Signup(r.Context(), service.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		Nickname:    req.Nickname,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		handleServiceError(w, "handlers.Signup", err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login accepts either a JSON body {email, password} or an OAuth2 password
// form where username carries the email.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, http.StatusBadRequest, "Invalid form body")
			return
		}
		req.Email = r.FormValue("username")
		req.Password = r.FormValue("password")
	default:
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	pair, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, "handlers.Login", err)
		return
	}

	h.writeTokens(w, pair)
}

// Refresh takes the refresh token from the cookie, or from the JSON body
// when no cookie is present.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" && r.ContentLength != 0 {
		var req RefreshRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		token = req.RefreshToken
	}
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Refresh token missing")
		return
	}

	pair, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		handleServiceError(w, "handlers.Refresh", err)
		return
	}

	h.writeTokens(w, pair)
}

// Logout revokes the presented access token and clears the refresh cookie.
// It succeeds for missing, invalid and already revoked tokens alike.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.BearerToken(r); ok {
		if err := h.authService.Logout(r.Context(), token); err != nil {
			handleServiceError(w, "handlers.Logout", err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), userID, domain.UserPatch{
		Nickname:    req.Nickname,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		handleServiceError(w, "handlers.UpdateMe", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.authService.DeleteAccount(r.Context(), userID); err != nil {
		handleServiceError(w, "handlers.DeleteMe", err)
		return
	}

	if token, ok := middleware.BearerToken(r); ok {
		if err := h.authService.Logout(r.Context(), token); err != nil {
			handleServiceError(w, "handlers.DeleteMe", err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) writeTokens(w http.ResponseWriter, pair *service.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(pair.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
	})
}
