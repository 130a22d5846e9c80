package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonwraymond/drugsafety/ai"
	"github.com/jonwraymond/drugsafety/cache"
	"github.com/jonwraymond/drugsafety/compare"
	"github.com/jonwraymond/drugsafety/config"
	"github.com/jonwraymond/drugsafety/fda"
	"github.com/jonwraymond/drugsafety/health"
	"github.com/jonwraymond/drugsafety/observe"
	"github.com/jonwraymond/drugsafety/profile"
	"github.com/jonwraymond/drugsafety/refdata"
	"github.com/jonwraymond/drugsafety/resilience"
	"github.com/jonwraymond/drugsafety/safety"
	"github.com/jonwraymond/drugsafety/server"
)

// version is stamped by the build.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: cfg.Observability.ServiceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   cfg.Observability.TracingEnabled,
			Exporter:  cfg.Observability.TraceExporter,
			SamplePct: cfg.Observability.TraceSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  cfg.Observability.MetricsEnabled,
			Exporter: cfg.Observability.MetricExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: cfg.Observability.LoggingEnabled,
			Level:   cfg.Observability.LogLevel,
		},
	})
	if err != nil {
		log.Fatalf("build observer: %v", err)
	}
	logger := obs.Logger()

	reference := refdata.BuiltIn()
	if cfg.Reference.Path != "" {
		reference, err = refdata.Load(cfg.Reference.Path)
		if err != nil {
			log.Fatalf("load reference set: %v", err)
		}
	}

	store := cache.NewMemoryStore()
	limiter := resilience.NewRateLimiter(resilience.RateLimiterConfig{
		Capacity: cfg.FDA.RateLimit,
		Window:   cfg.FDA.RateWindow,
		MaxWait:  cfg.FDA.RateMaxWait,
	})

	fdaClient := fda.New(fda.Config{
		BaseURL: cfg.FDA.BaseURL,
		APIKey:  cfg.FDA.APIKey,
		Limiter: limiter,
		Timeout: resilience.NewTimeout(resilience.TimeoutConfig{Timeout: cfg.FDA.FetchTimeout}),
	})

	// Without an OpenAI key the synthesizer runs on templated summaries.
	var generator safety.TextGenerator
	if aiClient := ai.New(ai.Config{APIKey: cfg.AI.APIKey, Model: cfg.AI.Model}); aiClient.Enabled() {
		generator = aiClient
	}
	synthesizer := safety.NewSynthesizer(safety.SynthesizerConfig{
		Generator: generator,
		Timeout:   cfg.AI.SynthesisTimeout,
	})

	metrics, err := observe.NewMetrics(obs.Meter())
	if err != nil {
		log.Fatalf("build metrics: %v", err)
	}

	resolver, err := profile.NewResolver(profile.Config{
		Validator:   reference,
		Fetcher:     fdaClient,
		Synthesizer: synthesizer,
		Store:       store,
		Policy:      cache.Policy{DefaultTTL: cfg.Cache.TTL, MaxTTL: cfg.Cache.MaxTTL},
		Metrics:     metrics,
	})
	if err != nil {
		log.Fatalf("build resolver: %v", err)
	}

	comparator, err := compare.NewComparator(resolver)
	if err != nil {
		log.Fatalf("build comparator: %v", err)
	}

	agg := health.NewAggregator()
	agg.Register("cache", health.NewCacheChecker(store, health.CacheCheckerConfig{}))
	agg.Register("fda_ratelimit", health.NewRateLimitChecker(limiter))
	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))

	srv, err := server.New(server.Config{
		Resolver:   resolver,
		Comparator: comparator,
		Health:     agg,
		Observer:   obs,
		APIKey:     cfg.Server.APIKey,
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	summaries := "templated"
	if generator != nil {
		summaries = "openai"
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server listening",
			observe.Field{Key: "addr", Value: cfg.Server.ListenAddr},
			observe.Field{Key: "version", Value: version},
			observe.Field{Key: "checks", Value: agg.CheckerNames()},
			observe.Field{Key: "auth_enabled", Value: cfg.Server.APIKey != ""},
			observe.Field{Key: "summaries", Value: summaries},
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	case err := <-errCh:
		log.Fatalf("serve: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	err = httpServer.Shutdown(shutdownCtx)
	if obsErr := obs.Shutdown(shutdownCtx); obsErr != nil {
		err = errors.Join(err, obsErr)
	}
	if err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	logger.Info(context.Background(), "server stopped")
}
