// Package config loads runtime configuration for the NoteKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the NoteKeeper API
//	-s string   directory holding the session file
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://localhost:5000",
//	  "session_dir": "/home/me/.notekeeper",
//	  "request_timeout": "10s"
//	}
package config
