// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "bank-system/internal/api"
	"bank-system/internal/api/handler"
	"bank-system/internal/config"
	"bank-system/internal/repository"
	"bank-system/internal/repository/sqlrepo"
	"bank-system/internal/service"
	"bank-system/internal/util"
	"bank-system/pkg/db"
	"bank-system/pkg/password"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	AccountRepository     repository.AccountRepository
	TransactionRepository repository.TransactionRepository
	SessionRepository     repository.SessionRepository

	// Services
	AccountService service.AccountService
	LedgerService  service.LedgerService
	SessionService service.SessionService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{Logger: slog.Default()}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "db_driver", cfg.DBDriver)

	maxAmount, err := cfg.MaxAmount()
	if err != nil {
		return err
	}

	// 3. Connect to Database and apply the schema
	database, err := db.Open(cfg.DB())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.Migrate(ctx, app.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	app.Logger.Info("Database schema is up to date.")

	// 4. Initialize Repositories
	app.AccountRepository = sqlrepo.NewAccountRepository()
	app.TransactionRepository = sqlrepo.NewTransactionRepository()
	app.SessionRepository = sqlrepo.NewSessionRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	app.AccountService = service.NewAccountService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor
		app.AccountRepository,
		password.NewBcryptHasher(cfg.BcryptCost),
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.LedgerService = service.NewLedgerService(
		app.DB,
		app.DB,
		app.AccountRepository,
		app.TransactionRepository,
		maxAmount,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.SessionService = service.NewSessionService(
		app.DB,
		app.AccountService,
		app.SessionRepository,
		cfg.SessionTTL,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	cookie := handler.CookieSettings{Name: cfg.SessionCookieName, Secure: cfg.CookieSecure}
	accountHandler := handler.NewAccountHandler(app.AccountService, app.SessionService, cookie, app.Logger)
	ledgerHandler := handler.NewLedgerHandler(app.LedgerService, app.Logger)
	app.HTTPHandler = router.NewRouter(accountHandler, ledgerHandler, app.SessionService, router.RouterConfig{
		SessionCookieName:  cfg.SessionCookieName,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
