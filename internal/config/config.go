package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the server configuration, loaded from environment variables.
type Config struct {
	// HTTP
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`
	MetricsPort string `envconfig:"METRICS_PORT" default:"9091"`

	// Logging. Empty LOG_OUTPUT_PATH logs to stdout.
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding   string `envconfig:"LOG_ENCODING" default:"json"`
	LogOutputPath string `envconfig:"LOG_OUTPUT_PATH"`

	// Narrator backend
	AIProvider string        `envconfig:"AI_PROVIDER" default:"ollama"`
	AIBaseURL  string        `envconfig:"AI_BASE_URL" default:"http://localhost:11434"`
	AIModel    string        `envconfig:"AI_MODEL" default:"llama3.2:3b-instruct-q4_K_M"`
	AIAPIKey   string        `envconfig:"AI_API_KEY"`
	AITimeout  time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`

	// Prompt assembly
	PromptTemplate string `envconfig:"PROMPT_TEMPLATE" default:"llama3"`
	WindowTurns    int    `envconfig:"WINDOW_TURNS" default:"20"`
	TokenBudget    int    `envconfig:"TOKEN_BUDGET" default:"1800"`

	// Generation workers
	WorkerPoolSize int `envconfig:"WORKER_POOL_SIZE" default:"2"`

	// Session store. Empty REDIS_ADDR keeps sessions in process memory.
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"72h"`

	// Turn event publishing. Empty RABBITMQ_URL disables it.
	RabbitMQURL string `envconfig:"RABBITMQ_URL"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}
