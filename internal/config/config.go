// Package config loads the typed server configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds every knob the server reads from the environment. A .env file
// is honored when present, so local development does not need exported
// variables.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`
	Port        string `env:"PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST,required"`
	DBPort     string `env:"DB_PORT,required"`
	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASS,required"`
	DBName     string `env:"DB_NAME,required"`

	KeyPairPath string `env:"KEY_PAIR_PATH" envDefault:"keypair.bin"`

	MailgunAPIKey string `env:"MAILGUN_API_KEY"`
	MailgunDomain string `env:"MAILGUN_DOMAIN" envDefault:"mail.campushub.app"`

	// VerifyEmails enables the MX deliverability check on signup. It is off by
	// default because it needs outbound DNS/SMTP access.
	VerifyEmails bool `env:"VERIFY_EMAILS" envDefault:"false"`
}

// Load reads the .env file if one exists and parses the environment into a
// Config.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}

// DatabaseURL returns the connection string for pgxpool and the migrator.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
