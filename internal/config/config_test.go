package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskmanager/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	raw := `server:
  host: "127.0.0.1"
  port: "9090"
database:
  url: "postgres://u:p@localhost:5432/db"
  max_connections: 5
  min_connections: 1
  idle_timeout: 3m
logging:
  development: true
repository:
  type: "postgres"
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.GetServerAddr())
	assert.Equal(t, 5, cfg.Database.MaxConnections)
	assert.Equal(t, config.Duration(3*time.Minute), cfg.Database.IdleTimeout)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "postgres", cfg.Repository.Type)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	raw := `database:
  idle_timeout: sometimes
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}
