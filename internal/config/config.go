// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"

	"bank-system/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string `env:"SERVER_PORT" env-default:"8081"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`

	DBDriver   string `env:"DB_DRIVER" env-default:"postgres"`
	DBHost     string `env:"DB_HOST" env-default:"localhost"`
	DBPort     int    `env:"DB_PORT" env-default:"5432"`
	DBUser     string `env:"DB_USER" env-default:"user"`
	DBPassword string `env:"DB_PASSWORD" env-default:"password"`
	DBName     string `env:"DB_NAME" env-default:"bankdb"`
	DBSSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
	SQLitePath string `env:"SQLITE_PATH" env-default:"bank.db"`

	SessionTTL        time.Duration `env:"SESSION_TTL" env-default:"24h"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" env-default:"BANK_SESSION"`
	CookieSecure      bool          `env:"COOKIE_SECURE" env-default:"false"`
	BcryptCost        int           `env:"BCRYPT_COST" env-default:"10"`

	// Upper bound for a single deposit or withdrawal.
	MaxTransactionAmount string `env:"MAX_TRANSACTION_AMOUNT" env-default:"1000000"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000" env-separator:","`
}

// LoadConfig loads configuration from environment variables.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}
	if _, err := cfg.MaxAmount(); err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL: must be positive, got %s", cfg.SessionTTL)
	}
	return cfg, nil
}

// DB returns the connection settings for pkg/db.
func (c *AppConfig) DB() db.Config {
	return db.Config{
		Driver:     c.DBDriver,
		Host:       c.DBHost,
		Port:       c.DBPort,
		User:       c.DBUser,
		Password:   c.DBPassword,
		DBName:     c.DBName,
		SSLMode:    c.DBSSLMode,
		SQLitePath: c.SQLitePath,
	}
}

// MaxAmount parses MaxTransactionAmount.
func (c *AppConfig) MaxAmount() (decimal.Decimal, error) {
	max, err := decimal.NewFromString(c.MaxTransactionAmount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid MAX_TRANSACTION_AMOUNT: %w", err)
	}
	if !max.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid MAX_TRANSACTION_AMOUNT: must be positive, got %s", max)
	}
	return max, nil
}
