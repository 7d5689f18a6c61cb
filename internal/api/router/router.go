package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tazaticket/flight-concierge/internal/conversation"
	"github.com/tazaticket/flight-concierge/internal/messaging"
	"github.com/tazaticket/flight-concierge/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	WebhookHandler      *messaging.WebhookHandler
	ConversationHandler *conversation.Handler
	MetricsHandler      http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Public endpoints (webhooks, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.WebhookHandler.HealthCheck)
		public.Route("/webhooks/twilio", func(r chi.Router) {
			r.Post("/whatsapp", cfg.WebhookHandler.ServeHTTP)
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Direct API access, mostly for testing the conversation flow without
	// going through Twilio.
	if cfg.ConversationHandler != nil {
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/message", cfg.ConversationHandler.Message)
		})
	}

	return r
}
