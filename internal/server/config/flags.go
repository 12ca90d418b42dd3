package config

import (
	"flag"
	"time"

	"github.com/rajat290/notekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-r int      reset token validity, minutes
//	-l int      rate limit, requests per window
//	-w int      rate limit window, minutes
//	-e string   environment ("production" hides stack traces)
//	-u string   client base URL used in reset links
//
// Only these flags are taken from args (see flagx.FilterArgs), so -c/-config
// and anything else pass through untouched. Durations are whole minutes.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-r", "-l", "-w", "-e", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "session token validity (in minutes)")
	resetTokenValidity := fs.Int("r", int(config.ResetTokenValidityDuration.Minutes()), "reset token validity (in minutes)")

	fs.IntVar(&config.RateLimitRequests, "l", config.RateLimitRequests, "requests allowed per client per window")
	rateLimitWindow := fs.Int("w", int(config.RateLimitWindow.Minutes()), "rate limit window (in minutes)")

	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.StringVar(&config.ClientURL, "u", config.ClientURL, "client base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// minute flags only replace durations that were actually given,
	// so "90s" from the environment survives a run without -t
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
		case "r":
			config.ResetTokenValidityDuration = time.Duration(*resetTokenValidity) * time.Minute
		case "w":
			config.RateLimitWindow = time.Duration(*rateLimitWindow) * time.Minute
		}
	})
}
