package perplexity

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Perplexity client.
type Config struct {
	APIKey         string        // if empty, falls back to env PERPLEXITY_API_KEY
	BaseURL        string        // default https://api.perplexity.ai
	Model          string        // e.g., "sonar-pro"
	Temperature    float32       // 0..2
	MaxTokens      int           // full-profile budget
	FieldMaxTokens int           // single-field budget
	Timeout        time.Duration // http client timeout
	MaxAttempts    int           // attempts per extraction
	RateLimitSleep time.Duration // pause after a 429
	RetrySleep     time.Duration // pause after other failures
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
	sleep  func(d time.Duration)
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("PERPLEXITY_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.perplexity.ai"
	}
	if cfg.Model == "" {
		cfg.Model = "sonar-pro"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.FieldMaxTokens <= 0 {
		cfg.FieldMaxTokens = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RateLimitSleep <= 0 {
		cfg.RateLimitSleep = 10 * time.Second
	}
	if cfg.RetrySleep <= 0 {
		cfg.RetrySleep = 3 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		sleep:  time.Sleep,
	}
}
