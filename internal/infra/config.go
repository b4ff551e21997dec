package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvironmentProfile names a hosting target. Some networks need materially
// longer connect/command timeouts, so every timeout in the config is scaled
// by the profile instead of being tuned ad hoc at call sites.
type EnvironmentProfile string

const (
	ProfileLocal      EnvironmentProfile = "local"
	ProfileCloud      EnvironmentProfile = "cloud"
	ProfileRestricted EnvironmentProfile = "restricted-network"
)

func (p EnvironmentProfile) timeoutScale() time.Duration {
	switch p {
	case ProfileRestricted:
		return 3
	case ProfileCloud:
		return 2
	default:
		return 1
	}
}

// RetryPolicy bounds retries for transient infrastructure failures.
// Delay grows exponentially: BaseDelay, 2*BaseDelay, 4*BaseDelay, ...
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DelayFor returns the backoff delay before the given attempt (1-based).
func (p RetryPolicy) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv  string
	Profile EnvironmentProfile
	Port    string

	DatabaseURL    string
	ConnectTimeout time.Duration
	CommandTimeout time.Duration

	AMQPURL string

	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	ResearchBaseURL string
	ResearchAPIKey  string
	ResearchTimeout time.Duration

	WorkerConcurrency  int
	WorkerPollInterval time.Duration
	VisibilityTimeout  time.Duration

	EnqueueRetry RetryPolicy
	TaskRetry    RetryPolicy

	EnrichCacheTTL time.Duration

	QueueRetainCompleted int
	QueueRetainFailed    int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	MetricsAddr      string
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. A .env file is honored when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	profile := EnvironmentProfile(getEnv("ENV_PROFILE", string(ProfileLocal)))
	switch profile {
	case ProfileLocal, ProfileCloud, ProfileRestricted:
	default:
		return nil, fmt.Errorf("unknown ENV_PROFILE %q", profile)
	}
	scale := profile.timeoutScale()

	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		Profile: profile,
		Port:    getEnv("PORT", "8080"),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ConnectTimeout: scale * time.Second * time.Duration(getEnvInt("DB_CONNECT_TIMEOUT_SECONDS", 10)),
		CommandTimeout: scale * time.Second * time.Duration(getEnvInt("DB_COMMAND_TIMEOUT_SECONDS", 15)),

		AMQPURL: os.Getenv("AMQP_URL"),

		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMBaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout: scale * time.Second * time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 45)),

		ResearchBaseURL: getEnv("RESEARCH_BASE_URL", "https://api.search.brave.com/res/v1"),
		ResearchAPIKey:  os.Getenv("RESEARCH_API_KEY"),
		ResearchTimeout: scale * time.Second * time.Duration(getEnvInt("RESEARCH_TIMEOUT_SECONDS", 10)),

		WorkerConcurrency:  getEnvInt("WORKER_CONCURRENCY", 3),
		WorkerPollInterval: time.Second * time.Duration(getEnvInt("WORKER_POLL_INTERVAL_SECONDS", 2)),
		VisibilityTimeout:  scale * time.Minute * time.Duration(getEnvInt("TASK_VISIBILITY_TIMEOUT_MINUTES", 10)),

		EnqueueRetry: RetryPolicy{
			MaxAttempts: getEnvInt("ENQUEUE_RETRY_ATTEMPTS", 3),
			BaseDelay:   scale * time.Millisecond * time.Duration(getEnvInt("ENQUEUE_RETRY_BASE_MS", 200)),
		},
		TaskRetry: RetryPolicy{
			MaxAttempts: getEnvInt("TASK_RETRY_ATTEMPTS", 3),
			BaseDelay:   time.Second * time.Duration(getEnvInt("TASK_RETRY_BASE_SECONDS", 5)),
		},

		EnrichCacheTTL: time.Hour * time.Duration(getEnvInt("ENRICH_CACHE_TTL_HOURS", 6)),

		QueueRetainCompleted: getEnvInt("QUEUE_RETAIN_COMPLETED", 50),
		QueueRetainFailed:    getEnvInt("QUEUE_RETAIN_FAILED", 50),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		MetricsAddr:      getEnv("METRICS_ADDR", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.WorkerConcurrency < 1 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be at least 1")
	}

	return cfg, nil
}

// StrategicConcurrency is the size of the lower-throughput pool that
// handles precomputed-digest tasks: half the standard pool, minimum one.
func (c *Config) StrategicConcurrency() int {
	n := c.WorkerConcurrency / 2
	if n < 1 {
		n = 1
	}
	return n
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
