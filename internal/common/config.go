package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Paths  PathsConfig
	Search SearchConfig
	LLM    LLMConfig
	Photo  PhotoConfig
	Enrich EnrichConfig
}

// PathsConfig holds the input/output file locations
type PathsConfig struct {
	InputFile       string
	EnrichedFile    string
	QuotaFile       string
	CandidatesFile  string
	SelectionsFile  string
	ReviewFile      string
	TemplateFile    string
	TemplateRegions string
	OutputDir       string
	SheetName       string
}

// SearchConfig holds search-provider configuration
type SearchConfig struct {
	SerpAPIKey   string
	MonthlyQuota int
	DDGRegion    string
	Timeout      time.Duration
}

// LLMConfig holds the LLM search API configuration
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	MaxAttempts int
}

// PhotoConfig holds photo-finder thresholds
type PhotoConfig struct {
	ConfidenceThreshold int
	RejectionFloor      int
	MaxCandidates       int
	FetchTimeout        time.Duration
}

// EnrichConfig holds orchestrator pacing and validation bounds
type EnrichConfig struct {
	CallInterval time.Duration
	MinAge       int
	MaxAge       int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			InputFile:       getEnv("PROFILE_INPUT_FILE", "獨立董事候選人名單.xlsx"),
			EnrichedFile:    getEnv("PROFILE_ENRICHED_FILE", "獨立董事候選人名單_enriched.xlsx"),
			QuotaFile:       getEnv("SERPAPI_QUOTA_FILE", "serpapi_usage.json"),
			CandidatesFile:  getEnv("PHOTO_CANDIDATES_FILE", "photo_candidates.json"),
			SelectionsFile:  getEnv("PHOTO_SELECTIONS_FILE", "photo_selections.json"),
			ReviewFile:      getEnv("PHOTO_REVIEW_FILE", "photo_review.html"),
			TemplateFile:    getEnv("CV_TEMPLATE_FILE", "templates/cv_template.html"),
			TemplateRegions: getEnv("CV_TEMPLATE_REGIONS", "templates/cv_regions.yaml"),
			OutputDir:       getEnv("CV_OUTPUT_DIR", "output"),
			SheetName:       getEnv("PROFILE_SHEET_NAME", "工作表1"),
		},
		Search: SearchConfig{
			SerpAPIKey:   getEnv("SERPAPI_API_KEY", ""),
			MonthlyQuota: getEnvAsInt("SERPAPI_MONTHLY_QUOTA", 60),
			DDGRegion:    getEnv("DDG_REGION", "tw-tzh"),
			Timeout:      getEnvAsDuration("SEARCH_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),
			APIKey:      getEnv("PERPLEXITY_API_KEY", ""),
			Model:       getEnv("PERPLEXITY_MODEL", "sonar-pro"),
			Temperature: getEnvAsFloat32("PERPLEXITY_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("PERPLEXITY_MAX_TOKENS", 4000),
			Timeout:     getEnvAsDuration("PERPLEXITY_TIMEOUT", 120*time.Second),
			MaxAttempts: getEnvAsInt("PERPLEXITY_MAX_ATTEMPTS", 3),
		},
		Photo: PhotoConfig{
			ConfidenceThreshold: getEnvAsInt("PHOTO_CONFIDENCE_THRESHOLD", 30),
			RejectionFloor:      getEnvAsInt("PHOTO_REJECTION_FLOOR", -50),
			MaxCandidates:       getEnvAsInt("PHOTO_MAX_CANDIDATES", 5),
			FetchTimeout:        getEnvAsDuration("PHOTO_FETCH_TIMEOUT", 30*time.Second),
		},
		Enrich: EnrichConfig{
			CallInterval: getEnvAsDuration("ENRICH_CALL_INTERVAL", 2*time.Second),
			MinAge:       getEnvAsInt("ENRICH_MIN_AGE", 35),
			MaxAge:       getEnvAsInt("ENRICH_MAX_AGE", 85),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the parts of the configuration every command needs.
// Missing API keys are not errors here; commands degrade with warnings.
func (c *Config) Validate() error {
	if c.Paths.InputFile == "" {
		return NewAppError("CONFIG_ERROR", "PROFILE_INPUT_FILE is required", ErrInvalidInput)
	}
	if c.Search.MonthlyQuota < 0 {
		return NewAppError("CONFIG_ERROR", "SERPAPI_MONTHLY_QUOTA must not be negative", ErrInvalidInput)
	}
	if c.LLM.MaxAttempts < 1 {
		return NewAppError("CONFIG_ERROR", "PERPLEXITY_MAX_ATTEMPTS must be at least 1", ErrInvalidInput)
	}
	if c.Enrich.MinAge >= c.Enrich.MaxAge {
		return NewAppError("CONFIG_ERROR", "ENRICH_MIN_AGE must be below ENRICH_MAX_AGE", ErrInvalidInput)
	}
	return nil
}
