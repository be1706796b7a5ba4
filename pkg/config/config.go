package config

import (
	"errors"
	"os"
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
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Timetable TimetableConfig
	Jobs      JobsConfig
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
	PingTimeout  time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds the shared secret used to verify tokens issued by the
// login service.
type JWTConfig struct {
	Secret string
	Issuer string
}

// CORSConfig lists browser origins allowed to call the API. Empty allows any.
type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// WeightsConfig overrides the candidate scoring weights.
type WeightsConfig struct {
	Preference      float64
	RemainingWeekly float64
	Consecutive     float64
	SubjectCount    float64
	DailyUnderfill  float64
}

// SchedulerConfig tunes timetable generation.
type SchedulerConfig struct {
	AsyncEnabled   bool
	CapScope       string
	CellOrder      string
	ScoreOnly      bool
	RequestTimeout time.Duration
	Semester       int
	Weights        WeightsConfig
}

// TimetableConfig governs cached timetable reads.
type TimetableConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// JobsConfig sizes the background generation queue.
type JobsConfig struct {
	Workers int
	Retries int
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
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
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

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		PingTimeout:  parseDuration(v.GetString("DB_PING_TIMEOUT"), 5*time.Second),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	semester := v.GetInt("SCHEDULER_SEMESTER")
	if semester <= 0 {
		semester = 1
	}
	cfg.Scheduler = SchedulerConfig{
		AsyncEnabled:   v.GetBool("ENABLE_SCHEDULER_ASYNC"),
		CapScope:       strings.ToLower(v.GetString("SCHEDULER_CAP_SCOPE")),
		CellOrder:      strings.ToLower(v.GetString("SCHEDULER_CELL_ORDER")),
		ScoreOnly:      v.GetBool("SCHEDULER_SCORE_ONLY"),
		RequestTimeout: parseDuration(v.GetString("SCHEDULER_REQUEST_TIMEOUT"), 15*time.Minute),
		Semester:       semester,
		Weights: WeightsConfig{
			Preference:      v.GetFloat64("SCHEDULER_WEIGHT_PREFERENCE"),
			RemainingWeekly: v.GetFloat64("SCHEDULER_WEIGHT_REMAINING_WEEKLY"),
			Consecutive:     v.GetFloat64("SCHEDULER_WEIGHT_CONSECUTIVE"),
			SubjectCount:    v.GetFloat64("SCHEDULER_WEIGHT_SUBJECT_COUNT"),
			DailyUnderfill:  v.GetFloat64("SCHEDULER_WEIGHT_DAILY_UNDERFILL"),
		},
	}

	cfg.Timetable = TimetableConfig{
		CacheEnabled: v.GetBool("TIMETABLE_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("TIMETABLE_CACHE_TTL"), 10*time.Minute),
	}

	workers := v.GetInt("JOBS_WORKERS")
	if workers <= 0 {
		workers = 1
	}
	retries := v.GetInt("JOBS_RETRIES")
	if retries < 0 {
		retries = 0
	}
	cfg.Jobs = JobsConfig{Workers: workers, Retries: retries}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_PING_TIMEOUT", "5s")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_SCHEDULER_ASYNC", false)
	v.SetDefault("SCHEDULER_CAP_SCOPE", "run")
	v.SetDefault("SCHEDULER_CELL_ORDER", "slot-major")
	v.SetDefault("SCHEDULER_SCORE_ONLY", false)
	v.SetDefault("SCHEDULER_REQUEST_TIMEOUT", "15m")
	v.SetDefault("SCHEDULER_SEMESTER", 1)
	v.SetDefault("SCHEDULER_WEIGHT_PREFERENCE", 100)
	v.SetDefault("SCHEDULER_WEIGHT_REMAINING_WEEKLY", 30)
	v.SetDefault("SCHEDULER_WEIGHT_CONSECUTIVE", 50)
	v.SetDefault("SCHEDULER_WEIGHT_SUBJECT_COUNT", 20)
	v.SetDefault("SCHEDULER_WEIGHT_DAILY_UNDERFILL", 10)

	v.SetDefault("TIMETABLE_CACHE_ENABLED", false)
	v.SetDefault("TIMETABLE_CACHE_TTL", "10m")

	v.SetDefault("JOBS_WORKERS", 1)
	v.SetDefault("JOBS_RETRIES", 0)
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
