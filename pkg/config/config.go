package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Academy       AcademyConfig
	Mushaf        MushafConfig
	Notifications NotificationConfig
	Assignments   AssignmentConfig
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
	Issuer     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AcademyConfig holds settings shared by the review pipeline.
type AcademyConfig struct {
	Timezone *time.Location
}

// MushafConfig tunes personal mushaf matching, statistics and caching.
type MushafConfig struct {
	CacheEnabled            bool
	CacheTTL                time.Duration
	PositionTolerance       float64
	RepeatOffenderThreshold int
}

// NotificationConfig controls the asynchronous notification dispatcher.
type NotificationConfig struct {
	Enabled       bool
	Workers       int
	Retries       int
	RetryDelay    time.Duration
	ChannelPrefix string
}

// AssignmentConfig drives the scheduled archiving of completed assignments.
type AssignmentConfig struct {
	ArchiveEnabled  bool
	ArchiveSchedule string
	ArchiveAfter    time.Duration
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

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
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Academy = AcademyConfig{
		Timezone: parseLocation(v.GetString("ACADEMY_TIMEZONE")),
	}

	tolerance := v.GetFloat64("POSITION_TOLERANCE_PX")
	if tolerance <= 0 {
		tolerance = 10
	}
	threshold := v.GetInt("REPEAT_OFFENDER_THRESHOLD")
	if threshold <= 0 {
		threshold = 3
	}
	cfg.Mushaf = MushafConfig{
		CacheEnabled:            v.GetBool("ENABLE_MUSHAF_CACHE"),
		CacheTTL:                parseDuration(v.GetString("MUSHAF_CACHE_TTL"), 5*time.Minute),
		PositionTolerance:       tolerance,
		RepeatOffenderThreshold: threshold,
	}

	cfg.Notifications = NotificationConfig{
		Enabled:       v.GetBool("ENABLE_NOTIFICATIONS"),
		Workers:       v.GetInt("NOTIFICATION_WORKERS"),
		Retries:       v.GetInt("NOTIFICATION_RETRIES"),
		RetryDelay:    parseDuration(v.GetString("NOTIFICATION_RETRY_DELAY"), 2*time.Second),
		ChannelPrefix: v.GetString("NOTIFICATION_CHANNEL_PREFIX"),
	}

	cfg.Assignments = AssignmentConfig{
		ArchiveEnabled:  v.GetBool("ENABLE_ASSIGNMENT_ARCHIVER"),
		ArchiveSchedule: v.GetString("ASSIGNMENT_ARCHIVE_SCHEDULE"),
		ArchiveAfter:    parseDuration(v.GetString("ASSIGNMENT_ARCHIVE_AFTER"), 30*24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tahfidz_academy")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "tahfidz-api")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ACADEMY_TIMEZONE", "UTC")

	v.SetDefault("ENABLE_MUSHAF_CACHE", false)
	v.SetDefault("MUSHAF_CACHE_TTL", "5m")
	v.SetDefault("POSITION_TOLERANCE_PX", 10)
	v.SetDefault("REPEAT_OFFENDER_THRESHOLD", 3)

	v.SetDefault("ENABLE_NOTIFICATIONS", true)
	v.SetDefault("NOTIFICATION_WORKERS", 2)
	v.SetDefault("NOTIFICATION_RETRIES", 3)
	v.SetDefault("NOTIFICATION_RETRY_DELAY", "2s")
	v.SetDefault("NOTIFICATION_CHANNEL_PREFIX", "notifications")

	v.SetDefault("ENABLE_ASSIGNMENT_ARCHIVER", true)
	v.SetDefault("ASSIGNMENT_ARCHIVE_SCHEDULE", "0 2 * * *")
	v.SetDefault("ASSIGNMENT_ARCHIVE_AFTER", "720h")
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

func parseLocation(raw string) *time.Location {
	if raw == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		return time.UTC
	}
	return loc
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
