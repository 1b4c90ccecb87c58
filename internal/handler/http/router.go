package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/config"
	"github.com/dilg-calendar/calendar-backend-go/internal/handler/http/middleware"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

const uploadsPrefix = "/uploads"

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth  AuthHandler
	Event EventHandler
	User  UserHandler
	Admin AdminHandler
}

func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	jwtService jwt.Service,
	sessions middleware.SessionValidator,
	h Handlers,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:             slog.LevelInfo,
		Schema:            httplog.SchemaECS,
		RecoverPanics:     true,
		Skip:              skipHeartbeat,
		LogRequestHeaders: []string{"Origin", "User-Agent"},
		LogRequestBody:    debugEnabled(logger),
		LogResponseBody:   debugEnabled(logger),
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Auth.Signup)
		r.Post("/login", h.Auth.Login)
		r.Post("/refresh", h.Auth.RefreshToken)
	})

	// Requires authentication
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		r.Use(middleware.AuthRequired(jwtService, sessions))

		r.Post("/auth/logout", h.Auth.Logout)

		r.Route("/event", func(r chi.Router) {
			r.Post("/add", h.Event.Create)
			r.Put("/edit/{eventId}", h.Event.Update)
			r.Put("/inprogress/{eventId}", h.Event.MarkInProgress)
			r.Put("/complete/{eventId}", h.Event.MarkCompleted)
			r.Put("/postpone/{eventId}", h.Event.MarkPostponed)
			r.Put("/cancel/{eventId}", h.Event.MarkCancelled)
			r.Delete("/delete/{eventId}", h.Event.Delete)
			r.Get("/retrieve", h.Event.List)
			r.Get("/view/{eventId}", h.Event.Get)
			r.Post("/recipients", h.Event.PreviewRecipients)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Put("/approve/{eventId}", h.Event.Approve)
				r.Put("/decline/{eventId}", h.Event.Decline)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/profile/{id}", h.User.GetProfile)
			r.Put("/prof-edit", h.User.EditProfile)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Get("/find", h.Admin.Find)
			r.Put("/approve/{id}", h.Admin.Approve)
			r.Put("/promote/{id}", h.Admin.Promote)
			r.Put("/demote/{id}", h.Admin.Demote)
			r.Delete("/decline/{id}", h.Admin.Decline)
		})
	})

	fileServer := http.StripPrefix(uploadsPrefix, http.FileServer(http.Dir(cfg.Storage.BasePath)))
	r.Get(uploadsPrefix+"/*", func(w http.ResponseWriter, r *http.Request) {
		// Directory listings are never served.
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})

	return r
}

// debugEnabled limits body logging to debug level.
func debugEnabled(logger *slog.Logger) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		return logger.Enabled(r.Context(), slog.LevelDebug)
	}
}

func skipHeartbeat(r *http.Request, respStatus int) bool {
	return r.URL.Path == "/" && respStatus == http.StatusOK
}
