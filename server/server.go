package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonwraymond/drugsafety/compare"
	"github.com/jonwraymond/drugsafety/health"
	"github.com/jonwraymond/drugsafety/observe"
	"github.com/jonwraymond/drugsafety/profile"
	"github.com/jonwraymond/drugsafety/safety"
)

// Resolver produces the safety profile behind the single-drug tools.
type Resolver interface {
	Resolve(ctx context.Context, drugName string) (*safety.Profile, error)
}

// Comparator ranks drugs by safety score for the comparison tool.
type Comparator interface {
	Compare(ctx context.Context, drugNames []string) (*compare.Result, error)
}

// The production pipeline satisfies the collaborator interfaces.
var (
	_ Resolver   = (*profile.Resolver)(nil)
	_ Comparator = (*compare.Comparator)(nil)
)

// Config configures a Server.
type Config struct {
	// Resolver serves drug_safety_profile and drug_recalls. Required.
	Resolver Resolver

	// Comparator serves compare_drug_safety. Required.
	Comparator Comparator

	// Health backs the probe endpoints. Default: an empty aggregator,
	// which always reports healthy.
	Health *health.Aggregator

	// Observer supplies tracing, metrics, and logging for tool calls.
	// Default: a fully disabled observer.
	Observer observe.Observer

	// APIKey guards the tool endpoints when non-empty. Clients present
	// the key in the X-API-Key header; probe endpoints stay open.
	APIKey string
}

// Server is the HTTP edge for the drug safety tools.
//
// Contract:
//   - Concurrency: the Handler is safe for concurrent use.
//   - Errors: tool failures answer a structured JSON body, never a
//     bare status line.
//   - Every response carries an X-Request-ID header.
type Server struct {
	resolver   Resolver
	comparator Comparator
	health     *health.Aggregator
	exec       *observe.Middleware
	logger     observe.Logger
	apiKeyHash string
	handler    http.Handler
}

// New validates cfg, applies defaults, and builds the route table.
func New(cfg Config) (*Server, error) {
	if cfg.Resolver == nil {
		return nil, errors.New("server: resolver is required")
	}
	if cfg.Comparator == nil {
		return nil, errors.New("server: comparator is required")
	}
	if cfg.Health == nil {
		cfg.Health = health.NewAggregator()
	}
	if cfg.Observer == nil {
		obs, err := observe.NewObserver(context.Background(), observe.Config{ServiceName: "drugsafety"})
		if err != nil {
			return nil, err
		}
		cfg.Observer = obs
	}

	exec, err := observe.MiddlewareFromObserver(cfg.Observer)
	if err != nil {
		return nil, err
	}

	s := &Server{
		resolver:   cfg.Resolver,
		comparator: cfg.Comparator,
		health:     cfg.Health,
		exec:       exec,
		logger:     cfg.Observer.Logger(),
	}
	if cfg.APIKey != "" {
		s.apiKeyHash = hashAPIKey(cfg.APIKey)
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root handler with all routes and middleware
// attached.
func (s *Server) Handler() http.Handler { return s.handler }

// routes builds the route table. Method-qualified patterns answer 405
// for wrong verbs on known tool paths.
func (s *Server) routes() http.Handler {
	tools := http.NewServeMux()
	tools.HandleFunc("POST /v1/tools/drug_safety_profile", s.handleProfile())
	tools.HandleFunc("POST /v1/tools/drug_recalls", s.handleRecalls())
	tools.HandleFunc("POST /v1/tools/compare_drug_safety", s.handleCompare())

	root := http.NewServeMux()
	root.Handle("/v1/tools/", s.requireAPIKey(tools))
	health.RegisterHandlers(root, s.health)

	return s.withRequestID(s.logRequests(root))
}
