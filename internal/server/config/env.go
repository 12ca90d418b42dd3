package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv loads a .env file from the working directory if there is one and
// then applies the process environment. Variables already set in the
// environment win over .env entries.
func parseEnv(config *Config) {
	_ = godotenv.Load()
	applyEnv(config, os.LookupEnv)
}

// applyEnv overlays config with the variables lookup knows about.
//
//	PORT                 listen port (":PORT")
//	DATABASE_URL         PostgreSQL DSN
//	JWT_SECRET           session token secret
//	JWT_EXPIRES_IN       session token lifetime ("1h")
//	RESET_TOKEN_TTL      reset token lifetime ("10m")
//	RATE_LIMIT_MAX       requests per window
//	RATE_LIMIT_WINDOW    window length ("15m")
//	APP_ENV / NODE_ENV   environment name
//	CLIENT_URL           base URL for reset links
//	SMTP_HOST, SMTP_PORT, SMTP_EMAIL, SMTP_PASSWORD, SMTP_FROM
func applyEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	if port, ok := lookup("PORT"); ok && port != "" {
		config.EndpointAddrHTTP = ":" + port
	}
	str("DATABASE_URL", &config.DatabaseDSN)
	str("JWT_SECRET", &config.SecretKey)
	dur("JWT_EXPIRES_IN", &config.AccessTokenValidityDuration)
	dur("RESET_TOKEN_TTL", &config.ResetTokenValidityDuration)
	num("RATE_LIMIT_MAX", &config.RateLimitRequests)
	dur("RATE_LIMIT_WINDOW", &config.RateLimitWindow)
	str("NODE_ENV", &config.Environment)
	str("APP_ENV", &config.Environment)
	str("CLIENT_URL", &config.ClientURL)
	str("SMTP_HOST", &config.SMTPHost)
	num("SMTP_PORT", &config.SMTPPort)
	str("SMTP_EMAIL", &config.SMTPUsername)
	str("SMTP_PASSWORD", &config.SMTPPassword)
	str("SMTP_FROM", &config.SMTPFrom)
}
