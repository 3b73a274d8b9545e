package infrastructure

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kkratossdead/Cv-Ia/analyzer"
	"github.com/kkratossdead/Cv-Ia/domain"
)

// Keys left at their documentation placeholder are treated as absent.
const placeholderAPIKey = "your_openai_api_key_here"

// Config is the explicit runtime configuration, read once from the
// environment and passed to the components that need it. No component reads
// ambient globals.
type Config struct {
	OpenAIKey       string
	Model           string
	ReasoningEffort string
	DBDSN           string
	RabbitMQURL     string
	ListenAddr      string
	InputRate       float64
	OutputRate      float64
	JSONLog         bool
	Debug           bool
}

// LoadConfig reads the environment and validates that a usable model
// credential and database DSN are present. Validation failures are
// *domain.ConfigurationError and must halt the process before any batch
// starts.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		OpenAIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Model:           envOr("OPENAI_MODEL", "gpt-5-mini"),
		ReasoningEffort: envOr("OPENAI_REASONING_EFFORT", "minimal"),
		DBDSN:           os.Getenv("DB_DSN"),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		ListenAddr:      envOr("LISTEN_ADDR", ":8080"),
		InputRate:       envFloat("PRICE_INPUT_PER_1K", analyzer.DefaultInputRate),
		OutputRate:      envFloat("PRICE_OUTPUT_PER_1K", analyzer.DefaultOutputRate),
		JSONLog:         os.Getenv("LOG_JSON") == "true",
		Debug:           os.Getenv("DEBUG") == "true",
	}

	if cfg.OpenAIKey == "" || cfg.OpenAIKey == placeholderAPIKey {
		return nil, &domain.ConfigurationError{Reason: "OPENAI_API_KEY is not set"}
	}
	if cfg.DBDSN == "" {
		return nil, &domain.ConfigurationError{Reason: "DB_DSN is not set"}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ignoring invalid %s=%q\n", key, raw)
		return fallback
	}
	return v
}
