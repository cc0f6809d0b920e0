package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"ctchen222/LLM-Arena/internal/validator"
)

// Config carries everything the arena needs at startup. Values come from an
// optional YAML file, overridden by environment variables; a .env file is
// loaded first if present.
type Config struct {
	HTTPAddr   string `yaml:"http_addr" env:"HTTP_ADDR" env-default:":8080"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"arena.db"`
	RedisAddr  string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:""`

	// JWTSecret is only required in serve mode; the CLI modes never mint
	// tokens.
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-default:""`

	GroqAPIKey   string `yaml:"-" env:"GROQ_API_KEY"`
	OpenAIAPIKey string `yaml:"-" env:"OPENAI_API_KEY"`
	GeminiAPIKey string `yaml:"-" env:"GEMINI_API_KEY"`

	OtelEndpoint string `yaml:"otel_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:""`
	LogLevel     string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`

	MoveDelay time.Duration `yaml:"move_delay" env:"MOVE_DELAY" env-default:"0s"`
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	// Same convention as the Python tooling around the APIs: secrets live
	// in a .env file during development.
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	}

	if err := validator.GetValidator().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load with a fatal exit on failure, for use in main.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}
