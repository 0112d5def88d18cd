package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/BuzzLyutic/taskchat/internal/llm"
	"github.com/BuzzLyutic/taskchat/internal/model"
)

const DefaultChatAPIURL = "http://localhost:8080"

type Config struct {
	Port         string
	LogLevel     string
	WriteTimeout time.Duration
	CORSOrigins  []string
	LLM          llm.Config
	Extraction   ExtractionConfig
}

type ExtractionConfig struct {
	Mode       model.Mode
	MaxRetries int
	// LegacyEmptyOnFailure answers extraction failures with 200 and an empty list.
	LegacyEmptyOnFailure bool
}

// ClientConfig configures the board client.
type ClientConfig struct {
	ChatAPIURL string
	Timeout    time.Duration
	Verbose    bool
}

// NewViper returns a viper instance reading the process environment, with
// a .env file in the working directory loaded first when present.
func NewViper() *viper.Viper {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("write_timeout", 120*time.Second)
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("llm_provider", llm.DefaultProvider)
	v.SetDefault("extraction_mode", string(model.ModeEpics))
	v.SetDefault("extraction_max_retries", 3)
	v.SetDefault("legacy_empty_on_failure", false)
	v.SetDefault("chat_api_url", DefaultChatAPIURL)
	return v
}

func Load() (Config, error) {
	return FromViper(NewViper())
}

func FromViper(v *viper.Viper) (Config, error) {
	provider, err := llm.ValidateProvider(strings.ToLower(v.GetString("llm_provider")))
	if err != nil {
		return Config{}, err
	}

	mode, err := model.ParseMode(v.GetString("extraction_mode"))
	if err != nil {
		return Config{}, err
	}

	retries := v.GetInt("extraction_max_retries")
	if retries < 1 {
		return Config{}, fmt.Errorf("EXTRACTION_MAX_RETRIES must be at least 1, got %d", retries)
	}

	modelName := v.GetString("llm_model")
	if modelName == "" {
		modelName = llm.DefaultModelForProvider(provider)
	}

	return Config{
		Port:         v.GetString("port"),
		LogLevel:     v.GetString("log_level"),
		WriteTimeout: v.GetDuration("write_timeout"),
		CORSOrigins:  splitList(v.GetString("cors_allowed_origins")),
		LLM: llm.Config{
			Provider: provider,
			Model:    modelName,
			APIKey:   apiKey(v, provider),
			BaseURL:  v.GetString("llm_base_url"),
		},
		Extraction: ExtractionConfig{
			Mode:                 mode,
			MaxRetries:           retries,
			LegacyEmptyOnFailure: v.GetBool("legacy_empty_on_failure"),
		},
	}, nil
}

func LoadClient(v *viper.Viper) ClientConfig {
	return ClientConfig{
		ChatAPIURL: strings.TrimRight(v.GetString("chat_api_url"), "/"),
		Timeout:    v.GetDuration("timeout"),
		Verbose:    v.GetBool("verbose"),
	}
}

// apiKey prefers LLM_API_KEY over the provider's conventional variable.
func apiKey(v *viper.Viper, provider llm.Provider) string {
	if key := v.GetString("llm_api_key"); key != "" {
		return key
	}
	switch provider {
	case llm.ProviderOpenAI:
		return v.GetString("openai_api_key")
	case llm.ProviderAnthropic:
		return v.GetString("anthropic_api_key")
	case llm.ProviderGemini:
		return v.GetString("gemini_api_key")
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
