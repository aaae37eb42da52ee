// Package config provides configuration for the assistant backend.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/voxlab/assistant/internal/domain"
)

// DefaultSystemPrompt is used when SYSTEM_PROMPT is not set.
const DefaultSystemPrompt = "You are a helpful assistant. Answer the user's questions clearly and concisely."

// Config holds the assistant configuration. All values are read once at
// startup and never mutated.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Completion service
	OpenAIBaseURL string
	OpenAIAPIKey  string
	Model         string
	LLMTimeout    time.Duration

	// Search augmentation
	SearchProvider   string
	TavilyAPIKey     string
	SearchTimeout    time.Duration
	SearchMaxResults int

	// Prompt assembly
	SystemPrompt  string
	HistoryWindow int

	// Pricing (per 1000 tokens)
	Pricing domain.Pricing
}

// Load loads configuration from a .env file (if present) and environment
// variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:         getEnvInt("PORT", 8080),
		DatabaseURL:      getEnv("DATABASE_URL", "file:assistant.db?cache=shared&mode=rwc"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		Model:            getEnv("OPENAI_MODEL", "gpt-4"),
		LLMTimeout:       time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		SearchProvider:   getEnv("SEARCH_PROVIDER", "none"),
		TavilyAPIKey:     getEnv("TAVILY_API_KEY", ""),
		SearchTimeout:    time.Duration(getEnvInt("SEARCH_TIMEOUT_MS", 5000)) * time.Millisecond,
		SearchMaxResults: getEnvInt("SEARCH_MAX_RESULTS", 3),
		SystemPrompt:     getEnv("SYSTEM_PROMPT", DefaultSystemPrompt),
		HistoryWindow:    getEnvInt("HISTORY_WINDOW", 10),
		Pricing: domain.Pricing{
			PromptPer1K:     getEnvDecimal("PROMPT_COST_PER_1K", "0.03"),
			CompletionPer1K: getEnvDecimal("COMPLETION_COST_PER_1K", "0.06"),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvDecimal(key, defaultVal string) decimal.Decimal {
	if val := os.Getenv(key); val != "" {
		if d, err := decimal.NewFromString(val); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(defaultVal)
	return d
}
