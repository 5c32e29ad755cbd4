package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	assert.Equal(t, "5000", c.AppPort)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, 10, c.DefaultPageSize)
	assert.Equal(t, 100, c.MaxPageSize)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Empty(t, c.RedisHost)
	assert.True(t, c.SeedDemoUser)
}

func TestLoadJSONConfigGroupedSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"app": {"Port": "8081", "AllowedOrigins": ["http://a", "http://b"]},
		"database": {"Driver": "postgres", "DBName": "feed"},
		"feed": {"MaxPageSize": 50, "SeedDemoUser": false},
		"log": {"Level": "debug", "Compress": true}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))
	applyDefaults(&c)

	assert.Equal(t, "8081", c.AppPort)
	assert.Equal(t, []string{"http://a", "http://b"}, c.AllowedOrigins)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "feed", c.DBName)
	assert.Equal(t, 50, c.MaxPageSize)
	assert.False(t, c.SeedDemoUser)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.LogCompress)
}

func TestLoadJSONConfigMissingFileIsIgnored(t *testing.T) {
	var c AppConfig
	assert.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "nope.json"), &c))
	assert.True(t, c.SeedDemoUser)
}

func TestLoadJSONConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	var c AppConfig
	assert.Error(t, loadJSONConfig(path, &c))
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://x , ,http://y")
	t.Setenv("MAX_PAGE_SIZE", "25")
	t.Setenv("SEED_DEMO_USER", "false")

	c := Defaults()
	applyEnvOverrides(&c)

	assert.Equal(t, "7000", c.AppPort)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, []string{"http://x", "http://y"}, c.AllowedOrigins)
	assert.Equal(t, 25, c.MaxPageSize)
	assert.False(t, c.SeedDemoUser)
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		c := Defaults()
		c.DBDriver = driver
		d, err := Dialector(c)
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	c := Defaults()
	c.DBDriver = "mongodb"
	_, err := Dialector(c)
	assert.Error(t, err)
}
