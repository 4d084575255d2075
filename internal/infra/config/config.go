package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// SMS provider selection values.
const (
	SMSProviderMock   = "mock"
	SMSProviderTwilio = "twilio"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	Port        int
	CORSOrigin  string
	DatabaseURL string
	JWTSecret   string
	LogLevel    string
	Environment string

	SMSProvider      string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioNumber     string

	BillingWebhookSecret string

	CronSpecDailySend string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-me"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		cfg.Port = 4000
	} else {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Port = port
	}

	cfg.CORSOrigin = os.Getenv("CORS_ORIGIN")
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "http://localhost:5173"
	}

	cfg.SMSProvider = strings.ToLower(os.Getenv("SMS_PROVIDER"))
	if cfg.SMSProvider == "" {
		cfg.SMSProvider = SMSProviderMock
	}
	if cfg.SMSProvider != SMSProviderMock && cfg.SMSProvider != SMSProviderTwilio {
		return nil, fmt.Errorf("invalid SMS_PROVIDER %q (want %q or %q)", cfg.SMSProvider, SMSProviderMock, SMSProviderTwilio)
	}

	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.TwilioNumber = os.Getenv("TWILIO_NUMBER")

	// Twilio credentials are only required when the live sender is selected.
	// Fail fast with a message listing everything that is missing.
	if cfg.SMSProvider == SMSProviderTwilio {
		var missing []string
		if cfg.TwilioAccountSID == "" {
			missing = append(missing, "TWILIO_ACCOUNT_SID")
		}
		if cfg.TwilioAuthToken == "" {
			missing = append(missing, "TWILIO_AUTH_TOKEN")
		}
		if cfg.TwilioNumber == "" {
			missing = append(missing, "TWILIO_NUMBER")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("SMS_PROVIDER=twilio but missing env vars: %s", strings.Join(missing, ", "))
		}
	}

	cfg.BillingWebhookSecret = os.Getenv("BILLING_WEBHOOK_SECRET")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecDailySend = os.Getenv("CRON_SPEC_DAILY_SEND")
	if cfg.CronSpecDailySend == "" {
		cfg.CronSpecDailySend = "0 9 * * *" // Default: 9:00 AM daily
	}

	return cfg, nil
}
