package config

import (
	"encoding/json"
	"os"

	"github.com/rajat290/notekeeper/internal/flagx"
	"github.com/rajat290/notekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ResetTokenValidityDuration  timex.Duration `json:"reset_token_validity_duration"`
	RateLimitRequests           int            `json:"rate_limit_requests"`
	RateLimitWindow             timex.Duration `json:"rate_limit_window"`
	Environment                 string         `json:"environment"`
	ClientURL                   string         `json:"client_url"`
	SMTPHost                    string         `json:"smtp_host"`
	SMTPPort                    int            `json:"smtp_port"`
	SMTPUsername                string         `json:"smtp_username"`
	SMTPPassword                string         `json:"smtp_password"`
	SMTPFrom                    string         `json:"smtp_from"`
}

// parseJson overlays config with the JSON file named by -c/-config in args.
// Keys missing from the file leave the current value untouched. An unreadable
// or malformed file panics, like a bad flag does.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.JsonConfigFlags(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Environment, c.Environment)
	setString(&config.ClientURL, c.ClientURL)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPUsername, c.SMTPUsername)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SMTPFrom, c.SMTPFrom)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ResetTokenValidityDuration.Duration > 0 {
		config.ResetTokenValidityDuration = c.ResetTokenValidityDuration.Duration
	}
	if c.RateLimitWindow.Duration > 0 {
		config.RateLimitWindow = c.RateLimitWindow.Duration
	}
	if c.RateLimitRequests > 0 {
		config.RateLimitRequests = c.RateLimitRequests
	}
	if c.SMTPPort > 0 {
		config.SMTPPort = c.SMTPPort
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
