package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/medicare-be/internal/api/handlers"
	"github.com/isdelr/medicare-be/internal/auth"
	"github.com/isdelr/medicare-be/internal/services"
	"github.com/isdelr/medicare-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	issuer *auth.TokenIssuer,
	userService services.UserServiceProvider,
	medicationService services.MedicationServiceProvider,
	reminderService services.ReminderServiceProvider,
	eventService services.EventServiceProvider,
	allowedOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	medicationHandler := handlers.NewMedicationHandler(medicationService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	eventHandler := handlers.NewEventHandler(eventService)
	healthHandler := handlers.NewHealthHandler()
	wsHandler := handlers.NewWebSocketHandler(hub, medicationService)

	r.Get("/healthz", healthHandler.Check)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", userHandler.Signup)
		r.Post("/auth/login", userHandler.Login)

		// Everything below requires a valid session token
		r.Group(func(r chi.Router) {
			r.Use(issuer.Middleware())

			r.Get("/auth/me", userHandler.GetMe)
			r.Get("/users", userHandler.GetAll)
			r.Get("/events", eventHandler.GetRecent)
			r.Get("/ws", wsHandler.Serve)

			r.Route("/medications", func(r chi.Router) {
				r.Get("/", medicationHandler.GetAll)
				r.Post("/", medicationHandler.Create)
				r.Get("/adherence", medicationHandler.Adherence)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/taken", medicationHandler.MarkTaken)
					r.Post("/reminders", reminderHandler.Create)
					r.Get("/reminders", reminderHandler.GetForMedication)
				})
			})

			r.Delete("/reminders/{id}", reminderHandler.Delete)
		})
	})

	return r
}
