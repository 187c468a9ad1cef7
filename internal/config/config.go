package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const (
	ExerciseSourceAPI      = "api"
	ExerciseSourcePostgres = "postgres"
	ExerciseSourceFile     = "file"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// redis, used for the rate limiter and the muscle search cache
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres, only used when the exercise source is "postgres"
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// exercise catalog
	ExerciseSource          string `toml:"exercise_source"`
	ExerciseApiURL          string `toml:"exercise_api_url"`
	ExerciseFilePath        string `toml:"exercise_file_path"`
	ExerciseCacheSizeMB     int    `toml:"exercise_cache_size_mb"`
	ExerciseCacheTTLSec     int    `toml:"exercise_cache_ttl_sec"`
	MuscleSearchCacheTTLSec int    `toml:"muscle_search_cache_ttl_sec"`

	// plans
	MutationRateLimitPerMin int     `toml:"mutation_rate_limit_per_min"`
	PlanIdleTimeoutMin      int     `toml:"plan_idle_timeout_min"`
	SetsPerWeekMax          float64 `toml:"sets_per_week_max"`
	SynergisticMultiplier   float64 `toml:"synergistic_multiplier"`
	StabilizingMultiplier   float64 `toml:"stabilizing_multiplier"`

	TipsCsvPath    string   `toml:"tips_csv_path"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file and returns the section for the given env,
// with the planner defaults filled in where the file leaves them out.
// Validate is left to the caller, once the secrets are applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ExerciseSource == "" {
		c.ExerciseSource = ExerciseSourceAPI
	}
	if c.TipsCsvPath == "" {
		c.TipsCsvPath = "./assets/tips.csv"
	}
	if c.ExerciseCacheSizeMB <= 0 {
		c.ExerciseCacheSizeMB = 10
	}
	if c.ExerciseCacheTTLSec <= 0 {
		c.ExerciseCacheTTLSec = 300
	}
	if c.MuscleSearchCacheTTLSec <= 0 {
		c.MuscleSearchCacheTTLSec = 600
	}
	if c.MutationRateLimitPerMin <= 0 {
		c.MutationRateLimitPerMin = 120
	}
	if c.PlanIdleTimeoutMin <= 0 {
		c.PlanIdleTimeoutMin = 120
	}
	if c.SetsPerWeekMax == 0 {
		c.SetsPerWeekMax = 20
	}
	if c.SynergisticMultiplier == 0 {
		c.SynergisticMultiplier = 0.5
	}
	if c.StabilizingMultiplier == 0 {
		c.StabilizingMultiplier = 0.33
	}
}

func (c *Config) Validate() error {
	switch c.ExerciseSource {
	case ExerciseSourceAPI:
		if c.ExerciseApiURL == "" {
			return fmt.Errorf("exercise_api_url is required for source [%s]", c.ExerciseSource)
		}
	case ExerciseSourcePostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return fmt.Errorf("postgres host and db name are required for source [%s]", c.ExerciseSource)
		}
	case ExerciseSourceFile:
		if c.ExerciseFilePath == "" {
			return fmt.Errorf("exercise_file_path is required for source [%s]", c.ExerciseSource)
		}
	default:
		return fmt.Errorf("unknown exercise source: %s", c.ExerciseSource)
	}
	return nil
}

// Secrets are never kept in the TOML file.
type Secrets struct {
	RedisPassword    string `env:"MOYB_REDIS_PASS"`
	PostgresPassword string `env:"MOYB_POSTGRES_PASS"`
	ExerciseApiURL   string `env:"MOYB_EXERCISE_API_URL"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED" envDefault:"false"`
	HoneycombApiKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME"`
}

// ApplySecrets lets the environment override the values that may be kept out of the file.
func (c *Config) ApplySecrets(s *Secrets) {
	if s == nil {
		return
	}
	if s.ExerciseApiURL != "" {
		c.ExerciseApiURL = s.ExerciseApiURL
	}
}

func LoadSecrets() (*Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &s, nil
}
