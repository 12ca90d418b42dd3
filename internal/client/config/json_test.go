package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_url":      "http://example:9000",
		"request_timeout": "30s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		cfg := &Config{SessionDir: "keep"}
		parseJson(cfg, []string{"-config", pathFlag})

		assert.Equal(t, "http://example:9000", cfg.ServerURL)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "keep", cfg.SessionDir)
	})

	t.Run("no flags → no changes", func(t *testing.T) {
		cfg := &Config{ServerURL: "defaults", RequestTimeout: 42 * time.Second}
		parseJson(cfg, nil)

		assert.Equal(t, "defaults", cfg.ServerURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	})
}
