package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Telegram TelegramConfig
	Postgres PostgresConfig
	Server   ServerConfig
	Search   SearchConfig
	OpenAI   OpenAIConfig
	Import   ImportConfig
	Logging  LoggingConfig
}

// TelegramConfig holds bot transport configuration
type TelegramConfig struct {
	Token         string
	PublicChannel string // channel username without @, channel posts from others are ignored
	ManagerChatID int64  // operator chat for lead notifications, 0 disables
	Greeting      string
	BaseURL       string // public https base for webhook mode, empty means long polling
	WebhookPath   string
	PollTimeout   int // long-poll timeout, seconds
}

// PostgresConfig holds database configuration
type PostgresConfig struct {
	DSN                string
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds webhook/ops server configuration
type ServerConfig struct {
	Host           string
	Port           int
	GinMode        string
	AllowedOrigins string
}

// SearchConfig holds matcher configuration
type SearchConfig struct {
	ResultCap      int
	WeightBedrooms float64
	WeightLocation float64
}

// OpenAIConfig holds the optional enrichment collaborator configuration
type OpenAIConfig struct {
	APIKey      string
	APIBase     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     int // seconds
	Enabled     bool
}

// ImportConfig holds historical backfill configuration
type ImportConfig struct {
	Channels   string // comma-separated channel refs
	DumpPath   string // Telegram Desktop JSON export, empty disables backfill
	Limit      int    // messages per channel
	RatePerSec float64
	Burst      int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string
	Environment string
	SeqURL      string
	SeqToken    string
}

const defaultGreeting = "Привет! Я ассистент Cozy Asia 🌴\n" +
	"Напиши, что ищешь (район, бюджет, спальни, пожелания и т.д.) " +
	"или нажми /rent — подберу варианты из базы."

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			Token:         getEnv("TELEGRAM_BOT_TOKEN", ""),
			PublicChannel: getEnv("PUBLIC_CHANNEL", ""),
			ManagerChatID: getEnvAsInt64("MANAGER_CHAT_ID", 0),
			Greeting:      getEnv("GREETING_MESSAGE", defaultGreeting),
			BaseURL:       getEnv("BASE_URL", ""),
			WebhookPath:   getEnv("WEBHOOK_PATH", "/webhook"),
			PollTimeout:   getEnvAsInt("POLL_TIMEOUT", 30),
		},
		Postgres: PostgresConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "rental_inventory"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("PORT", 10000),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Search: SearchConfig{
			ResultCap:      getEnvAsInt("SEARCH_RESULT_CAP", 6),
			WeightBedrooms: getEnvAsFloat("RANK_WEIGHT_BEDROOMS", 0.2),
			WeightLocation: getEnvAsFloat("RANK_WEIGHT_LOCATION", 0.5),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			APIBase:     getEnv("OPENAI_API_BASE", ""),
			Model:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.2),
			MaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 1024),
			Timeout:     getEnvAsInt("OPENAI_TIMEOUT", 30),
			Enabled:     getEnv("OPENAI_API_KEY", "") != "",
		},
		Import: ImportConfig{
			Channels:   getEnv("BACKFILL_CHANNELS", ""),
			DumpPath:   getEnv("BACKFILL_DUMP", ""),
			Limit:      getEnvAsInt("BACKFILL_LIMIT", 1000),
			RatePerSec: getEnvAsFloat("BACKFILL_RATE_PER_SEC", 3),
			Burst:      getEnvAsInt("BACKFILL_BURST", 5),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("ENVIRONMENT", "development"),
			SeqURL:      getEnv("SEQ_URL", ""),
			SeqToken:    getEnv("SEQ_TOKEN", ""),
		},
	}

	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}

	return cfg, nil
}

// GetPostgresDSN returns the connection string, preferring the full DSN
func (c *Config) GetPostgresDSN() string {
	if c.Postgres.DSN != "" {
		return c.Postgres.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Database,
		c.Postgres.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
