package config

import (
	"flag"
	"time"

	"github.com/rajat290/notekeeper/internal/flagx"
)

// parseFlags overlays cfg with -a, -s and -t. Other arguments are ignored.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t"})
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the NoteKeeper API")
	fs.StringVar(&cfg.SessionDir, "s", cfg.SessionDir, "directory holding the session file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
