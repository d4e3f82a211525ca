package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 0\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort())
	assert.Equal(t, ConflictModeDate, cfg.Booking.ConflictMode)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "10:00", cfg.DayStart())
	assert.Equal(t, "20:00", cfg.DayEnd())
	assert.Equal(t, 15, cfg.SlotMinutes())
	assert.Equal(t, 9, cfg.MaxPhotos())
	assert.Equal(t, 10*time.Second, cfg.UploadTimeout())
	assert.Len(t, cfg.Catalog, 8)
	assert.Equal(t, "Натуральные ногти", cfg.Catalog[0].Title)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_ADMIN_TOKEN", "sekret")
	path := writeConfig(t, "admin:\n  token: ${TEST_ADMIN_TOKEN}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sekret", cfg.Admin.Token)
}

func TestLoad_ConflictMode(t *testing.T) {
	t.Run("DateTime", func(t *testing.T) {
		path := writeConfig(t, "booking:\n  conflict_mode: date_time\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ConflictModeDateTime, cfg.Booking.ConflictMode)
	})

	t.Run("Unknown", func(t *testing.T) {
		path := writeConfig(t, "booking:\n  conflict_mode: per_hour\n")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestLoad_CatalogOverride(t *testing.T) {
	path := writeConfig(t, `
catalog:
  - id: 1
    title: Test
    price: 100
    duration_minutes: 60
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Catalog, 1)
	assert.Equal(t, "Test", cfg.Catalog[0].Title)
	assert.Equal(t, 100, cfg.Catalog[0].Price)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
