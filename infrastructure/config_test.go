package infrastructure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kkratossdead/Cv-Ia/analyzer"
	"github.com/kkratossdead/Cv-Ia/domain"
)

func TestLoadConfigMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/cv_ia")

	cfg, err := LoadConfig()
	require.Error(t, err)
	require.Nil(t, cfg)

	var confErr *domain.ConfigurationError
	require.True(t, errors.As(err, &confErr))
}

func TestLoadConfigPlaceholderAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", placeholderAPIKey)
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/cv_ia")

	_, err := LoadConfig()

	var confErr *domain.ConfigurationError
	require.True(t, errors.As(err, &confErr), "placeholder credential must be rejected")
}

func TestLoadConfigMissingDSN(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DB_DSN", "")

	_, err := LoadConfig()

	var confErr *domain.ConfigurationError
	require.True(t, errors.As(err, &confErr))
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/cv_ia")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("OPENAI_REASONING_EFFORT", "")
	t.Setenv("PRICE_INPUT_PER_1K", "")
	t.Setenv("PRICE_OUTPUT_PER_1K", "")
	t.Setenv("LISTEN_ADDR", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "gpt-5-mini", cfg.Model)
	require.Equal(t, "minimal", cfg.ReasoningEffort)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, analyzer.DefaultInputRate, cfg.InputRate)
	require.Equal(t, analyzer.DefaultOutputRate, cfg.OutputRate)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/cv_ia")
	t.Setenv("OPENAI_MODEL", "gpt-5")
	t.Setenv("OPENAI_REASONING_EFFORT", "low")
	t.Setenv("PRICE_INPUT_PER_1K", "0.001")
	t.Setenv("PRICE_OUTPUT_PER_1K", "0.004")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "gpt-5", cfg.Model)
	require.Equal(t, "low", cfg.ReasoningEffort)
	require.InDelta(t, 0.001, cfg.InputRate, 1e-12)
	require.InDelta(t, 0.004, cfg.OutputRate, 1e-12)
}
