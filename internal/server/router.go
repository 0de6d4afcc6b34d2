package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/technova-labs/inductbot/internal/api"
	"github.com/technova-labs/inductbot/internal/api/handlers"
	"github.com/technova-labs/inductbot/internal/api/middleware"
)

type RouterConfig struct {
	AdminToken       string
	ChatHandler      *handlers.ChatHandler
	CategoryHandler  *handlers.CategoryHandler
	DocumentHandler  *handlers.DocumentHandler
	AnalyticsHandler *handlers.AnalyticsHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/chat", cfg.ChatHandler.Ask)
	r.Get("/suggestions", cfg.CategoryHandler.Suggestions)
	r.Get("/history/{session_id}", cfg.ChatHandler.History)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", cfg.CategoryHandler.List)
		r.Get("/{name}", cfg.CategoryHandler.Get)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.AdminToken))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/settings", cfg.CategoryHandler.GetSettings)
			r.Put("/settings", cfg.CategoryHandler.UpdateSettings)
			r.Put("/{name}", cfg.CategoryHandler.Replace)
			r.Post("/{name}/items", cfg.CategoryHandler.AddItem)
			r.Delete("/{name}/items/{id}", cfg.CategoryHandler.DeleteItem)
		})

		r.Route("/document", func(r chi.Router) {
			r.Post("/", cfg.DocumentHandler.Upload)
			r.Get("/", cfg.DocumentHandler.Get)
			r.Delete("/", cfg.DocumentHandler.Delete)
		})

		r.Get("/analytics", cfg.AnalyticsHandler.Summary)

		r.Route("/chats", func(r chi.Router) {
			r.Get("/", cfg.ChatHandler.ListSessions)
			r.Post("/reset", cfg.ChatHandler.Reset)
			r.Delete("/{session_id}", cfg.ChatHandler.DeleteSession)
		})
	})

	return r
}
