package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode bool `env:"TEST_MODE" envDefault:"false"`
	Port       int  `env:"PORT" envDefault:"8080"`

	// Secret peppers password hashes.
	Secret string `env:"SECRET,required"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`
	RabbitmqURL   string `env:"RABBITMQ_URL,required"`

	RabbitmqSecurityEventsExchange string `env:"RABBITMQ_SECURITY_EVENTS_EXCHANGE" envDefault:"security.events"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	BcryptHasherCost                int `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetValidDurationHours int `env:"PASSWORD_RESET_TOKEN_EXPIRY_HOURS" envDefault:"24"`

	TokenCleanupPeriod time.Duration `env:"TOKEN_CLEANUP_PERIOD" envDefault:"1h"`

	AwsRegion                     string  `env:"AWS_REGION,required"`
	AwsAccessKey                  string  `env:"AWS_ACCESS_KEY,required"`
	AwsSecretKey                  string  `env:"AWS_SECRET_KEY,required"`
	AwsEmailSender                string  `env:"AWS_EMAIL_SENDER,required"`
	AwsEmailPasswordResetTemplate string  `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE,required"`
	AwsEmailPasswordResetBaseUrl  url.URL `env:"AWS_EMAIL_PASSWORD_RESET_BASE_URL,required"`
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	return config, nil
}

func (c *Config) PasswordResetValidDuration() time.Duration {
	return time.Duration(c.PasswordResetValidDurationHours) * time.Hour
}
