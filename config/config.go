package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Data sources.
const (
	SourceMemory = "memory"
	SourceMongo  = "mongo"
	SourceSQL    = "sql"
)

// Session backends.
const (
	SessionsMemory = "memory"
	SessionsRedis  = "redis"
)

const (
	configFileName = "config"
	configFileType = "yaml"
)

type Config struct {
	Port         int
	LogMode      string
	LogLevel     string
	LogRedaction bool
	LogHashSalt  string

	DataSource      string
	DatasetPath     string
	DemoRecordCount int
	MongoURL        string
	DBName          string
	SQLDriver       string
	SQLDSN          string
	ConnectRetries  int

	SessionBackend  string
	RedisAddr       string
	AuthURL         string
	DevLoginEnabled bool
	CookieSecure    bool
	SessionTTL      time.Duration

	CORSOrigins         []string
	RecordLimit         int
	AnalyticsFetchLimit int
	CacheTTL            time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log_mode", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_redaction", true)
	v.SetDefault("log_hash_salt", "")
	v.SetDefault("data_source", SourceMemory)
	v.SetDefault("dataset_path", "")
	v.SetDefault("demo_record_count", 50)
	v.SetDefault("mongo_url", "")
	v.SetDefault("db_name", "governance_portal")
	v.SetDefault("sql_driver", "postgres")
	v.SetDefault("sql_dsn", "")
	v.SetDefault("connect_retries", 5)
	v.SetDefault("session_backend", SessionsMemory)
	v.SetDefault("redis_addr", "")
	v.SetDefault("auth_url", "")
	v.SetDefault("dev_login_enabled", true)
	v.SetDefault("cookie_secure", false)
	v.SetDefault("session_ttl", "168h")
	v.SetDefault("cors_origins", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("record_limit", 100)
	v.SetDefault("analytics_fetch_limit", 100000)
	v.SetDefault("cache_ttl", "30s")
}

// Load builds the configuration from, in increasing precedence, defaults,
// config.yaml in configDir, the first .env file found, and the environment.
// A missing config.yaml or .env is not an error.
func Load(configDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configDir == "" {
		configDir = "."
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if path := FindEnvFile(); path != "" {
		if err := mergeEnvFile(v, path); err != nil {
			return nil, err
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:                v.GetInt("port"),
		LogMode:             v.GetString("log_mode"),
		LogLevel:            v.GetString("log_level"),
		LogRedaction:        v.GetBool("log_redaction"),
		LogHashSalt:         v.GetString("log_hash_salt"),
		DataSource:          strings.ToLower(v.GetString("data_source")),
		DatasetPath:         v.GetString("dataset_path"),
		DemoRecordCount:     v.GetInt("demo_record_count"),
		MongoURL:            v.GetString("mongo_url"),
		DBName:              v.GetString("db_name"),
		SQLDriver:           strings.ToLower(v.GetString("sql_driver")),
		SQLDSN:              v.GetString("sql_dsn"),
		ConnectRetries:      v.GetInt("connect_retries"),
		SessionBackend:      strings.ToLower(v.GetString("session_backend")),
		RedisAddr:           v.GetString("redis_addr"),
		AuthURL:             v.GetString("auth_url"),
		DevLoginEnabled:     v.GetBool("dev_login_enabled"),
		CookieSecure:        v.GetBool("cookie_secure"),
		SessionTTL:          v.GetDuration("session_ttl"),
		CORSOrigins:         stringList(v.Get("cors_origins")),
		RecordLimit:         v.GetInt("record_limit"),
		AnalyticsFetchLimit: v.GetInt("analytics_fetch_limit"),
		CacheTTL:            v.GetDuration("cache_ttl"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceMemory:
	case SourceMongo:
		if c.MongoURL == "" {
			return errors.New("config: MONGO_URL is required when DATA_SOURCE=mongo")
		}
	case SourceSQL:
		if c.SQLDriver != "postgres" && c.SQLDriver != "sqlite" {
			return fmt.Errorf("config: unsupported SQL_DRIVER %q", c.SQLDriver)
		}
		if c.SQLDSN == "" {
			return errors.New("config: SQL_DSN is required when DATA_SOURCE=sql")
		}
	default:
		return fmt.Errorf("config: unsupported DATA_SOURCE %q", c.DataSource)
	}

	switch c.SessionBackend {
	case SessionsMemory:
	case SessionsRedis:
		if c.RedisAddr == "" {
			return errors.New("config: REDIS_ADDR is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("config: unsupported SESSION_BACKEND %q", c.SessionBackend)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.CacheTTL < 0 {
		return errors.New("config: CACHE_TTL must not be negative")
	}
	if c.RecordLimit <= 0 || c.AnalyticsFetchLimit <= 0 {
		return errors.New("config: RECORD_LIMIT and ANALYTICS_FETCH_LIMIT must be positive")
	}
	if c.DemoRecordCount < 0 {
		return errors.New("config: DEMO_RECORD_COUNT must not be negative")
	}
	if c.ConnectRetries < 1 {
		c.ConnectRetries = 1
	}
	return nil
}

// stringList accepts either a YAML list or a comma separated string.
func stringList(raw any) []string {
	var parts []string
	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
	case []string:
		parts = v
	case string:
		parts = strings.Split(v, ",")
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
