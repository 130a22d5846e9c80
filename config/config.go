package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jonwraymond/drugsafety/secret"
)

// Config holds all service configuration.
type Config struct {
	Server        ServerConfig
	Cache         CacheConfig
	FDA           FDAConfig
	AI            AIConfig
	Reference     ReferenceConfig
	Observability ObservabilityConfig
}

// ServerConfig configures the HTTP edge.
type ServerConfig struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `env:"DRUGSAFETY_LISTEN_ADDR" envDefault:":8080"`

	// APIKey guards the tool endpoints when set. Empty disables
	// edge authentication.
	APIKey string `env:"DRUGSAFETY_API_KEY"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"DRUGSAFETY_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// CacheConfig configures profile caching.
type CacheConfig struct {
	// TTL is how long a synthesized profile stays fresh.
	TTL time.Duration `env:"DRUGSAFETY_CACHE_TTL" envDefault:"24h"`

	// MaxTTL caps any TTL override.
	MaxTTL time.Duration `env:"DRUGSAFETY_CACHE_MAX_TTL" envDefault:"168h"`
}

// FDAConfig configures the openFDA client.
type FDAConfig struct {
	BaseURL string `env:"FDA_BASE_URL" envDefault:"https://api.fda.gov/drug"`

	// APIKey raises openFDA's rate allowance. Empty works against
	// the public tier.
	APIKey string `env:"FDA_API_KEY"`

	// RateLimit is the number of openFDA queries allowed per
	// RateWindow.
	RateLimit  int           `env:"FDA_RATE_LIMIT" envDefault:"60"`
	RateWindow time.Duration `env:"FDA_RATE_WINDOW" envDefault:"1m"`

	// RateMaxWait bounds how long a fetch blocks on the limiter
	// before giving up.
	RateMaxWait time.Duration `env:"FDA_RATE_MAX_WAIT" envDefault:"2s"`

	// FetchTimeout bounds each HTTP call to openFDA.
	FetchTimeout time.Duration `env:"DRUGSAFETY_FETCH_TIMEOUT" envDefault:"10s"`
}

// AIConfig configures summary generation.
type AIConfig struct {
	// APIKey enables OpenAI-backed summaries. Empty falls back to
	// templated summaries.
	APIKey string `env:"OPENAI_API_KEY"`

	Model string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// SynthesisTimeout bounds the generation call inside a resolve.
	SynthesisTimeout time.Duration `env:"DRUGSAFETY_SYNTHESIS_TIMEOUT" envDefault:"8s"`
}

// ReferenceConfig configures the drug reference set.
type ReferenceConfig struct {
	// Path points at a JSON reference file. Empty uses the built-in
	// set.
	Path string `env:"DRUGSAFETY_REFERENCE_PATH"`
}

// ObservabilityConfig carries telemetry toggles.
type ObservabilityConfig struct {
	ServiceName    string  `env:"DRUGSAFETY_SERVICE_NAME" envDefault:"drugsafety"`
	TracingEnabled bool    `env:"DRUGSAFETY_TRACING_ENABLED" envDefault:"false"`
	TraceExporter  string  `env:"DRUGSAFETY_TRACE_EXPORTER" envDefault:"stdout"`
	TraceSamplePct float64 `env:"DRUGSAFETY_TRACE_SAMPLE_PCT" envDefault:"1.0"`
	MetricsEnabled bool    `env:"DRUGSAFETY_METRICS_ENABLED" envDefault:"false"`
	MetricExporter string  `env:"DRUGSAFETY_METRIC_EXPORTER" envDefault:"stdout"`
	LoggingEnabled bool    `env:"DRUGSAFETY_LOGGING_ENABLED" envDefault:"true"`
	LogLevel       string  `env:"DRUGSAFETY_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment, resolves secret references in
// credential fields, and validates the result.
func Load(ctx context.Context) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	resolver := secret.NewResolver(true, secret.NewEnvProvider(), secret.NewFileProvider())
	for name, field := range map[string]*string{
		"DRUGSAFETY_API_KEY": &cfg.Server.APIKey,
		"FDA_API_KEY":        &cfg.FDA.APIKey,
		"OPENAI_API_KEY":     &cfg.AI.APIKey,
	} {
		resolved, err := resolver.ResolveValue(ctx, *field)
		if err != nil {
			return nil, fmt.Errorf("config: resolve %s: %w", name, err)
		}
		*field = resolved
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants the environment parser cannot express.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return errors.New("config: listen address is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("config: shutdown timeout must be positive")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("config: cache TTL must be positive")
	}
	if c.Cache.MaxTTL < c.Cache.TTL {
		return fmt.Errorf("config: cache max TTL %v is below TTL %v", c.Cache.MaxTTL, c.Cache.TTL)
	}
	if c.FDA.BaseURL == "" {
		return errors.New("config: FDA base URL is required")
	}
	if c.FDA.RateLimit <= 0 {
		return errors.New("config: FDA rate limit must be positive")
	}
	if c.FDA.RateWindow <= 0 {
		return errors.New("config: FDA rate window must be positive")
	}
	if c.FDA.RateMaxWait < 0 {
		return errors.New("config: FDA rate max wait must not be negative")
	}
	if c.FDA.FetchTimeout <= 0 {
		return errors.New("config: fetch timeout must be positive")
	}
	if c.AI.SynthesisTimeout <= 0 {
		return errors.New("config: synthesis timeout must be positive")
	}
	if pct := c.Observability.TraceSamplePct; pct < 0 || pct > 1 {
		return fmt.Errorf("config: trace sample percentage must be between 0.0 and 1.0, got %v", pct)
	}
	return nil
}
