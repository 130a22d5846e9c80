package profile

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/drugsafety/cache"
	"github.com/jonwraymond/drugsafety/fda"
	"github.com/jonwraymond/drugsafety/refdata"
	"github.com/jonwraymond/drugsafety/safety"
)

var tracer = otel.Tracer("github.com/jonwraymond/drugsafety/profile")

// Validator reports whether a drug name is known and returns its
// reference entry.
type Validator interface {
	Validate(name string) (refdata.Drug, error)
}

// Fetcher retrieves raw safety data from the upstream provider.
//
// Contract:
//   - Fetch honors ctx cancellation and deadlines.
//   - Implementations must be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, drugName string) (*fda.RawSafetyData, error)
}

// Synthesizer turns raw upstream data into a profile.
type Synthesizer interface {
	Synthesize(ctx context.Context, raw *fda.RawSafetyData) (*safety.Profile, error)
}

// Metrics records resolver cache and upstream activity. All methods
// must be safe for concurrent use.
type Metrics interface {
	RecordCacheHit(ctx context.Context)
	RecordCacheMiss(ctx context.Context)
	RecordUpstreamCall(ctx context.Context)
}

type noopMetrics struct{}

func (noopMetrics) RecordCacheHit(context.Context)     {}
func (noopMetrics) RecordCacheMiss(context.Context)    {}
func (noopMetrics) RecordUpstreamCall(context.Context) {}

// Production implementations satisfy the collaborator interfaces.
var (
	_ Validator   = (*refdata.Set)(nil)
	_ Fetcher     = (*fda.Client)(nil)
	_ Synthesizer = (*safety.Synthesizer)(nil)
)

// Config configures the resolver.
type Config struct {
	// Validator checks names against the reference set. Required.
	Validator Validator

	// Fetcher retrieves upstream data on cache misses. Required.
	Fetcher Fetcher

	// Synthesizer builds profiles from fetched data. Required.
	Synthesizer Synthesizer

	// Store caches synthesized profiles. Required.
	Store cache.Store

	// Policy decides how long profiles stay cached.
	// Default: cache.DefaultPolicy()
	Policy cache.Policy

	// Metrics records cache and upstream activity.
	// Default: no-op
	Metrics Metrics
}

// Resolver serves safety profiles, fetching at most once per key under
// concurrent demand.
type Resolver struct {
	validator   Validator
	fetcher     Fetcher
	synthesizer Synthesizer
	store       cache.Store
	policy      cache.Policy
	metrics     Metrics

	group singleflight.Group
}

// NewResolver creates a resolver.
func NewResolver(config Config) (*Resolver, error) {
	if config.Validator == nil {
		return nil, errors.New("profile: validator is required")
	}
	if config.Fetcher == nil {
		return nil, errors.New("profile: fetcher is required")
	}
	if config.Synthesizer == nil {
		return nil, errors.New("profile: synthesizer is required")
	}
	if config.Store == nil {
		return nil, errors.New("profile: store is required")
	}

	// Apply defaults
	if config.Policy == (cache.Policy{}) {
		config.Policy = cache.DefaultPolicy()
	}
	if config.Metrics == nil {
		config.Metrics = noopMetrics{}
	}

	return &Resolver{
		validator:   config.Validator,
		fetcher:     config.Fetcher,
		synthesizer: config.Synthesizer,
		store:       config.Store,
		policy:      config.Policy,
		metrics:     config.Metrics,
	}, nil
}

// Resolve returns the safety profile for drugName. Cached profiles come
// back with Cached=true and their age in DataFreshness; fresh ones with
// Cached=false and zero freshness.
func (r *Resolver) Resolve(ctx context.Context, drugName string) (*safety.Profile, error) {
	ctx, span := tracer.Start(ctx, "drug.resolve",
		trace.WithAttributes(attribute.String("drug.input", drugName)))
	defer span.End()

	drug, err := r.validator.Validate(drugName)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("drug.name", drug.Name))

	key := cache.Normalize(drug.Name)

	if prof, ok := r.fromStore(ctx, key); ok {
		r.metrics.RecordCacheHit(ctx)
		span.SetAttributes(attribute.Bool("drug.cached", true))
		return prof, nil
	}
	r.metrics.RecordCacheMiss(ctx)
	span.SetAttributes(attribute.Bool("drug.cached", false))

	prof, err := r.await(ctx, key, drug)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return prof, nil
}

// fromStore reads and decodes a cached profile. A payload that no
// longer decodes is deleted so the next resolve refetches.
func (r *Resolver) fromStore(ctx context.Context, key string) (*safety.Profile, bool) {
	entry, ok := r.store.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var prof safety.Profile
	if err := json.Unmarshal(entry.Payload, &prof); err != nil {
		_ = r.store.Delete(ctx, key)
		return nil, false
	}

	prof.Cached = true
	prof.DataFreshness = entry.Age(time.Now())
	return &prof, true
}

// await joins (or starts) the single flight for key. The pipeline runs
// on a context detached from this caller, so one waiter giving up never
// cancels the work for the rest.
func (r *Resolver) await(ctx context.Context, key string, drug refdata.Drug) (*safety.Profile, error) {
	leaderCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		return r.runPipeline(leaderCtx, key, drug)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Each caller gets its own copy; waiters share the underlying
		// slices, which are never mutated.
		prof := *res.Val.(*safety.Profile)
		return &prof, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// runPipeline is the single-flight leader: fetch, synthesize, store.
// A failed pipeline writes nothing.
func (r *Resolver) runPipeline(ctx context.Context, key string, drug refdata.Drug) (*safety.Profile, error) {
	// A previous flight may have filled the store between this caller's
	// miss and the flight starting.
	if prof, ok := r.fromStore(ctx, key); ok {
		return prof, nil
	}

	raw, err := r.fetch(ctx, drug)
	if err != nil {
		return nil, err
	}

	// Synthesize against the canonical display name.
	raw.DrugName = drug.Name
	prof, err := r.synthesizer.Synthesize(ctx, raw)
	if err != nil {
		return nil, err
	}

	r.storeProfile(ctx, key, prof)
	return prof, nil
}

func (r *Resolver) fetch(ctx context.Context, drug refdata.Drug) (*fda.RawSafetyData, error) {
	ctx, span := tracer.Start(ctx, "drug.fetch",
		trace.WithAttributes(attribute.String("drug.name", drug.Name)))
	defer span.End()

	r.metrics.RecordUpstreamCall(ctx)

	raw, err := r.fetcher.Fetch(ctx, drug.FDAGenericName)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}
	return raw, nil
}

// storeProfile writes the profile payload under the policy TTL. Derived
// fields are zeroed before encoding; a failed write does not fail the
// resolve.
func (r *Resolver) storeProfile(ctx context.Context, key string, prof *safety.Profile) {
	stored := *prof
	stored.Cached = false
	stored.DataFreshness = 0

	payload, err := json.Marshal(&stored)
	if err != nil {
		return
	}
	_ = r.store.Set(ctx, key, payload, r.policy.EffectiveTTL(0))
}
