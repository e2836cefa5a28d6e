package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, "data", cfg.FlatDir)
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: \"9000\"\ndatabaseUrl: from-file\nflatDir: file-dir\n"), 0644))

	t.Setenv("DATABASE_URL", "from-env")

	// flags beat env, env beats the file, the file beats defaults
	cfg, err := Load([]string{"--config", file, "--flat-dir", "flag-dir"})
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "from-env", cfg.DatabaseURL)
	assert.Equal(t, "flag-dir", cfg.FlatDir)
}

func TestLoadEnvNumbers(t *testing.T) {
	t.Setenv("STORAGE_QUOTA_BYTES", "1048576")
	t.Setenv("FLAT_BUDGET_BYTES", "2048")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1048576), cfg.QuotaBytes)
	assert.Equal(t, int64(2048), cfg.FlatBudgetBytes)
}
