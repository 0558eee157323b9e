package api

import (
	"net/http"

	"github.com/dom/diary-service/internal/api/handlers"
	"github.com/dom/diary-service/internal/api/middleware"
	"github.com/dom/diary-service/internal/config"
	"github.com/dom/diary-service/internal/service"
	"github.com/dom/diary-service/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	userHandler := handlers.NewUserHandler(services.Auth, cfg.CookieSecure)
	diaryHandler := handlers.NewDiaryHandler(services.Diary)
	tagHandler := handlers.NewTagHandler(services.Tag)
	statsHandler := handlers.NewStatsHandler(services.Stats)
	alertHandler := handlers.NewAlertHandler(services.Alert)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public user routes
		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", userHandler.Signup)
			r.Post("/login", userHandler.Login)
			r.Post("/refresh", userHandler.Refresh)
			r.Post("/logout", userHandler.Logout)

			// Protected user routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", userHandler.Me)
				r.Patch("/me", userHandler.UpdateMe)
				r.Delete("/me", userHandler.DeleteMe)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/diaries", func(r chi.Router) {
				r.Post("/", diaryHandler.Create)
				r.Get("/", diaryHandler.List)
				r.Get("/{id}", diaryHandler.Get)
				r.Patch("/{id}", diaryHandler.Update)
				r.Delete("/{id}", diaryHandler.Delete)
				r.Post("/{id}/summarize", diaryHandler.Summarize)
				r.Post("/{id}/analyze", diaryHandler.Analyze)
				r.Post("/{id}/emotion_stats", diaryHandler.Analyze)
				r.Get("/{id}/tags", diaryHandler.ListTags)
				r.Post("/{id}/tags", diaryHandler.AddTag)
				r.Delete("/{id}/tags/{tagID}", diaryHandler.RemoveTag)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Post("/", tagHandler.Create)
				r.Get("/", tagHandler.List)
				r.Get("/{id}", tagHandler.Get)
				r.Delete("/{id}", tagHandler.Delete)
			})

			r.Get("/stats/emotions", statsHandler.Emotions)
			r.Get("/alerts", alertHandler.List)
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
