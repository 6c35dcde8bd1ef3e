package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Simulation SimulationConfig
	Seed       SeedConfig
	Comments   CommentConfig
	Rewards    RewardsConfig
	Activity   ActivityConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// RedisConfig holds Redis connection values. An empty Addr keeps the
// submission guard in process memory.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SimulationConfig holds the artificial latency applied before each mutation.
type SimulationConfig struct {
	CreateDelayMS   int
	MutationDelayMS int
	CommentDelayMS  int
	RedeemDelayMS   int
	QueueSize       int
	GuardTTLSeconds int
}

// SeedConfig points at the fixture file. Empty means the embedded fixtures.
type SeedConfig struct {
	File string
}

// CommentConfig holds comment defaults.
type CommentConfig struct {
	DefaultAuthor string
}

// RewardsConfig tunes the gamification ledger.
type RewardsConfig struct {
	PointsPerResolution int
}

// ActivityConfig bounds the recent-activity feed.
type ActivityConfig struct {
	FeedSize int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Redis: RedisConfig{
			Addr:      os.Getenv("REDIS_ADDR"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "support-dashboard:"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Simulation: SimulationConfig{
			CreateDelayMS:   getEnvAsInt("SIM_CREATE_DELAY_MS", 1500),
			MutationDelayMS: getEnvAsInt("SIM_MUTATION_DELAY_MS", 1000),
			CommentDelayMS:  getEnvAsInt("SIM_COMMENT_DELAY_MS", 500),
			RedeemDelayMS:   getEnvAsInt("SIM_REDEEM_DELAY_MS", 0),
			QueueSize:       getEnvAsInt("SIM_QUEUE_SIZE", 64),
			GuardTTLSeconds: getEnvAsInt("SUBMISSION_GUARD_TTL_SECONDS", 30),
		},
		Seed: SeedConfig{
			File: os.Getenv("SEED_FILE"),
		},
		Comments: CommentConfig{
			DefaultAuthor: getEnv("COMMENT_DEFAULT_AUTHOR", "Current User"),
		},
		Rewards: RewardsConfig{
			PointsPerResolution: getEnvAsInt("REWARDS_POINTS_PER_RESOLUTION", 50),
		},
		Activity: ActivityConfig{
			FeedSize: getEnvAsInt("ACTIVITY_FEED_SIZE", 50),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// CreateDelay is the simulated latency of ticket creation.
func (s SimulationConfig) CreateDelay() time.Duration {
	return millis(s.CreateDelayMS)
}

// MutationDelay is the simulated latency of status and priority changes.
func (s SimulationConfig) MutationDelay() time.Duration {
	return millis(s.MutationDelayMS)
}

// CommentDelay is the simulated latency of posting a comment.
func (s SimulationConfig) CommentDelay() time.Duration {
	return millis(s.CommentDelayMS)
}

// RedeemDelay is the simulated latency of a reward redemption.
func (s SimulationConfig) RedeemDelay() time.Duration {
	return millis(s.RedeemDelayMS)
}

// GuardTTL bounds how long a submission key may stay held.
func (s SimulationConfig) GuardTTL() time.Duration {
	if s.GuardTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.GuardTTLSeconds) * time.Second
}

func millis(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
