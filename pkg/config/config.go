package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env              string
	Port             int
	APIPrefix        string
	DefaultStudentID string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Sections  SectionCacheConfig
	Alignment AlignmentConfig
	Metrics   MetricsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes the schedule builder.
type SchedulerConfig struct {
	CreditCeiling    int
	CreditFloor      int
	FetchConcurrency int
	AsyncPersist     bool
	PersistWorkers   int
}

// SectionCacheConfig controls redis caching of section catalog lookups.
type SectionCacheConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// AlignmentConfig points at the external personalization service.
type AlignmentConfig struct {
	Enabled bool
	BaseURL string
	Timeout time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.DefaultStudentID = strings.TrimSpace(v.GetString("DEFAULT_STUDENT_ID"))

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		CreditCeiling:    v.GetInt("SCHEDULER_CREDIT_CEILING"),
		CreditFloor:      v.GetInt("SCHEDULER_CREDIT_FLOOR"),
		FetchConcurrency: v.GetInt("SCHEDULER_FETCH_CONCURRENCY"),
		AsyncPersist:     v.GetBool("SCHEDULER_ASYNC_PERSIST"),
		PersistWorkers:   v.GetInt("SCHEDULER_PERSIST_WORKERS"),
	}

	cfg.Sections = SectionCacheConfig{
		CacheEnabled: v.GetBool("SECTION_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("SECTION_CACHE_TTL"), 15*time.Minute),
	}

	cfg.Alignment = AlignmentConfig{
		Enabled: v.GetBool("ALIGNMENT_ENABLED"),
		BaseURL: strings.TrimSpace(v.GetString("ALIGNMENT_BASE_URL")),
		Timeout: parseDuration(v.GetString("ALIGNMENT_TIMEOUT"), 5*time.Second),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("DEFAULT_STUDENT_ID", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "advisor")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_CREDIT_CEILING", 18)
	v.SetDefault("SCHEDULER_CREDIT_FLOOR", 15)
	v.SetDefault("SCHEDULER_FETCH_CONCURRENCY", 4)
	v.SetDefault("SCHEDULER_ASYNC_PERSIST", false)
	v.SetDefault("SCHEDULER_PERSIST_WORKERS", 2)

	v.SetDefault("SECTION_CACHE_ENABLED", false)
	v.SetDefault("SECTION_CACHE_TTL", "15m")

	v.SetDefault("ALIGNMENT_ENABLED", false)
	v.SetDefault("ALIGNMENT_BASE_URL", "")
	v.SetDefault("ALIGNMENT_TIMEOUT", "5s")

	v.SetDefault("ENABLE_METRICS", true)
}

// viper reports a missing explicit config file as a path error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
