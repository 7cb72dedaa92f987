package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsApplied(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	req.NoError(os.WriteFile(path, []byte("app:\n  env: test\n"), 0o644))

	cfg, err := Load(path)
	req.NoError(err)

	req.Equal("test", cfg.App.Env)
	req.Equal(8080, cfg.App.Port)
	req.Equal("mongodb://localhost:27017", cfg.Mongo.URI)
	req.Equal(25*time.Second, cfg.PingInterval)
	req.Equal(60*time.Second, cfg.ReminderInterval)
	req.Equal(10*time.Minute, cfg.ReminderWindow)
	req.Equal(int64(65536), cfg.WS.MaxMessageSizeBytes)
}

func TestLoad_ExplicitValues(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
app:
  port: 9000
ws:
  ping_interval_seconds: 5
reminder:
  poll_interval_seconds: 30
  lookahead_minutes: 5
`
	req.NoError(os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	req.NoError(err)

	req.Equal(9000, cfg.App.Port)
	req.Equal(5*time.Second, cfg.PingInterval)
	req.Equal(30*time.Second, cfg.ReminderInterval)
	req.Equal(5*time.Minute, cfg.ReminderWindow)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
