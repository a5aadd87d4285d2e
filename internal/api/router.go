// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bank-system/internal/api/handler"
	authmw "bank-system/internal/api/middleware"
)

// RouterConfig holds the HTTP settings the router needs.
type RouterConfig struct {
	SessionCookieName  string
	CORSAllowedOrigins []string
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	accountHandler *handler.AccountHandler,
	ledgerHandler *handler.LedgerHandler,
	sessions authmw.SessionResolver,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authmw.LoadSession(sessions, cfg.SessionCookieName, logger))

		r.Post("/signup", accountHandler.Signup)
		r.Post("/login", accountHandler.Login)
		r.Post("/logout", accountHandler.Logout)
		r.Get("/history", ledgerHandler.History)

		// Routes below need a logged in caller
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireSession(logger))

			r.Post("/deposit", ledgerHandler.Deposit)
			r.Post("/withdraw", ledgerHandler.Withdraw)
			r.Get("/user-info", accountHandler.UserInfo)
		})
	})

	return r
}
