package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-pomodoro-api/internal/application/auth"
	"github.com/go-pomodoro-api/internal/application/mail"
	"github.com/go-pomodoro-api/internal/application/pomodoro"
	"github.com/go-pomodoro-api/internal/application/user"
	"github.com/go-pomodoro-api/internal/application/verification"
	"github.com/go-pomodoro-api/internal/config"
	"github.com/go-pomodoro-api/internal/transport/http/handler"
	appmiddleware "github.com/go-pomodoro-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // refresh token travels in a cookie
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:      deps.UserRepo,
		TokenProvider: deps.JWTProvider,
		CookieDomain:  cfg.AppHost,
		Production:    cfg.IsProduction(),
		RefreshTTL:    cfg.RefreshTokenTTL,
	})
	mailSvc := mail.NewService(deps.UserRepo, deps.Mailer)
	verificationSvc := verification.NewService(verification.ServiceDeps{
		VerificationRepo: deps.VerificationRepo,
		UserRepo:         deps.UserRepo,
		Mail:             mailSvc,
	})
	pomodoroSvc := pomodoro.NewService(pomodoro.ServiceDeps{
		SessionRepo: deps.SessionRepo,
		RoundRepo:   deps.RoundRepo,
		UserRepo:    deps.UserRepo,
	})
	userSvc := user.NewService(deps.UserRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	verificationH := handler.NewVerificationHandler(verificationSvc)
	pomodoroH := handler.NewPomodoroHandler(pomodoroSvc)
	userH := handler.NewUserHandler(userSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/refresh", authH.Refresh)
		r.Post("/auth/logout", authH.Logout)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/user/profile", userH.GetProfile)
			r.Put("/user/profile", userH.UpdateProfile)

			r.Post("/user/verification/{action}", verificationH.Action)

			r.Get("/user/timer/today", pomodoroH.GetToday)
			r.Post("/user/timer", pomodoroH.Create)
			r.Put("/user/timer/round/{id}", pomodoroH.UpdateRound)
			r.Put("/user/timer/{id}", pomodoroH.Update)
			r.Delete("/user/timer/{id}", pomodoroH.Delete)
		})
	})

	return r
}
