package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Credentials should never have defaults inside code and must be provided via config.json or the environment.
type AppConfig struct {
	AppPort string
	// Database
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Gin framework configuration
	GinMode string
	GinPath string
	// HTTP surface
	AllowedOrigins     []string
	RateLimitPerMinute int
	// Feed
	DefaultPageSize          int
	MaxPageSize              int
	ReconcileIntervalMinutes int
	SeedDemoUser             bool
	// Redis page cache; empty RedisHost disables caching
	RedisHost       string
	RedisPort       int
	RedisDB         int
	RedisPassword   string
	CacheTTLSeconds int
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: config/config.json -> defaults -> environment variable overrides
	if err := loadJSONConfig(filepath.Join("config", "config.json"), &cfg); err != nil {
		log.Fatalf("invalid config/config.json: %v", err)
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Defaults returns a configuration made of code defaults only, ignoring
// config.json and the environment.
func Defaults() AppConfig {
	var c AppConfig
	c.SeedDemoUser = true
	applyDefaults(&c)
	return c
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	out.SeedDemoUser = true

	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string, def bool) bool {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
		return def
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if arr, ok := m[key].([]any); ok {
			res := make([]string, 0, len(arr))
			for _, it := range arr {
				if s, ok := it.(string); ok {
					res = append(res, s)
				}
			}
			return res
		}
		return nil
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "Port")
		out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
		out.GinMode = getString(app, "GinMode")
		out.GinPath = getString(app, "GinPath")
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DBDriver = getString(dbs, "Driver")
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		out.RedisPort = getInt(rds, "RedisPort")
		out.RedisDB = getInt(rds, "RedisDB")
		out.RedisPassword = getString(rds, "RedisPassword")
		out.CacheTTLSeconds = getInt(rds, "CacheTTLSeconds")
	}

	if fd, ok := raw["feed"].(map[string]any); ok {
		out.DefaultPageSize = getInt(fd, "DefaultPageSize")
		out.MaxPageSize = getInt(fd, "MaxPageSize")
		out.ReconcileIntervalMinutes = getInt(fd, "ReconcileIntervalMinutes")
		out.SeedDemoUser = getBool(fd, "SeedDemoUser", true)
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress", false)
	}
	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "5000"
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "nexus"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 120
	}
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = 10
	}
	if c.MaxPageSize == 0 {
		c.MaxPageSize = 100
	}
	if c.ReconcileIntervalMinutes == 0 {
		c.ReconcileIntervalMinutes = 10
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 60
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("DB_DRIVER", ""); v != "" {
		c.DBDriver = strings.ToLower(v)
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("DEFAULT_PAGE_SIZE", ""); v != "" {
		c.DefaultPageSize = mustParseInt(v)
	}
	if v := getEnv("MAX_PAGE_SIZE", ""); v != "" {
		c.MaxPageSize = mustParseInt(v)
	}
	if v := getEnv("RECONCILE_INTERVAL_MINUTES", ""); v != "" {
		c.ReconcileIntervalMinutes = mustParseInt(v)
	}
	if v := getEnv("SEED_DEMO_USER", ""); v != "" {
		c.SeedDemoUser = v == "true"
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("CACHE_TTL_SECONDS", ""); v != "" {
		c.CacheTTLSeconds = mustParseInt(v)
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
