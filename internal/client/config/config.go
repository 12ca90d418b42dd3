package config

import (
	"os"
	"path/filepath"
	"time"
)

const sessionDirName = ".notekeeper"

// Config holds runtime settings for the NoteKeeper CLI.
type Config struct {
	ServerURL      string
	SessionDir     string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults. The session directory
// lives in the user's home, or the working directory when there is none.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000"
	c.SessionDir = sessionDirName
	if home, err := os.UserHomeDir(); err == nil {
		c.SessionDir = filepath.Join(home, sessionDirName)
	}
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then JSON, then flags; later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
