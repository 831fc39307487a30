package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Model    ModelConfig
	Profile  ProfileConfig
	Storage  StorageConfig
	Analyzer AnalyzerConfig
}

type ServerConfig struct {
	Port             string
	Env              string
	CORSAllowOrigins string
}

type ModelConfig struct {
	// Provider selects the completion backend: "openai" for any
	// chat-completions endpoint, "gemini" for the Gemini API.
	Provider   string
	Endpoint   string
	APIKey     string
	Primary    string
	Candidates []string
}

type ProfileConfig struct {
	Domain       string
	FetchTimeout time.Duration
}

type StorageConfig struct {
	MaxFileSize int64
}

type AnalyzerConfig struct {
	HeuristicFallback bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	primary := getEnv("MODEL_ID", "openai/gpt-5")

	return &Config{
		Server: ServerConfig{
			Port:             getEnv("PORT", "3000"),
			Env:              getEnv("ENV", "development"),
			CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Model: ModelConfig{
			Provider:   getEnv("MODEL_PROVIDER", "openai"),
			Endpoint:   getEnv("MODEL_ENDPOINT", "https://models.github.ai/inference"),
			APIKey:     getEnv("MODEL_API_KEY", ""),
			Primary:    primary,
			Candidates: resolveCandidates(primary, getEnv("MODEL_CANDIDATES", "")),
		},
		Profile: ProfileConfig{
			Domain:       getEnv("PROFILE_DOMAIN", "linkedin.com"),
			FetchTimeout: getEnvAsDuration("PROFILE_FETCH_TIMEOUT", "20s"),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Analyzer: AnalyzerConfig{
			HeuristicFallback: getEnvAsBool("ANALYZER_HEURISTIC_FALLBACK", false),
		},
	}
}

// resolveCandidates parses the comma-separated override list; when the
// override is empty the cascade falls back to the primary model plus
// two widely available defaults.
func resolveCandidates(primary, override string) []string {
	var candidates []string
	for _, candidate := range strings.Split(override, ",") {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			candidates = append(candidates, candidate)
		}
	}
	if len(candidates) > 0 {
		return candidates
	}

	return []string{primary, "openai/gpt-4o-mini", "openai/gpt-4o"}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
