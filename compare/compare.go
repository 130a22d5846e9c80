package compare

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/drugsafety/cache"
	"github.com/jonwraymond/drugsafety/safety"
)

var tracer = otel.Tracer("github.com/jonwraymond/drugsafety/compare")

const (
	minDrugs = 2
	maxDrugs = 3
)

// Resolver produces a safety profile for one drug. The comparator
// depends on this narrow view so tests can stand in for the full
// profile resolver.
type Resolver interface {
	Resolve(ctx context.Context, drugName string) (*safety.Profile, error)
}

// Entry is one drug's standing within a comparison.
type Entry struct {
	DrugName    string `json:"drug_name"`
	SafetyScore int    `json:"safety_score"`
	TopConcern  string `json:"top_concern"`
}

// Omission records a drug dropped from a partial comparison.
type Omission struct {
	DrugName string `json:"drug_name"`
	Reason   string `json:"reason"`
}

// Result is a ranked comparison of two or three drugs.
type Result struct {
	// Entries is sorted by descending safety score. Drugs with equal
	// scores keep their request order.
	Entries []Entry `json:"comparison"`

	Recommendation string `json:"recommendation"`

	// Omitted lists drugs that failed to resolve when the comparison
	// proceeded on a subset.
	Omitted []Omission `json:"omitted,omitempty"`

	// PartialFailure is true when Omitted is non-empty.
	PartialFailure bool `json:"partial_failure,omitempty"`
}

// Comparator resolves several drugs concurrently and ranks them by
// safety score.
type Comparator struct {
	resolver Resolver
}

// NewComparator creates a comparator backed by the given resolver.
func NewComparator(resolver Resolver) (*Comparator, error) {
	if resolver == nil {
		return nil, errors.New("compare: resolver is required")
	}
	return &Comparator{resolver: resolver}, nil
}

// Compare resolves each named drug and returns a ranked Result.
//
// Contract:
//   - Names are normalized and deduplicated before anything else;
//     outside 2-3 distinct drugs Compare fails with ErrInvalidInput
//     and never touches the resolver.
//   - Every resolution branch is joined before Compare returns, even
//     when some branches fail.
//   - Fewer than two successful resolutions fail with a
//     *PartialFailureError naming each failed drug and its cause.
//   - Two or more successes with at least one failure produce a
//     Result over the surviving subset, with Omitted and
//     PartialFailure set.
func (c *Comparator) Compare(ctx context.Context, drugNames []string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "drug.compare",
		trace.WithAttributes(attribute.StringSlice("drug.names", drugNames)))
	defer span.End()

	unique := dedupe(drugNames)
	if len(unique) < minDrugs || len(unique) > maxDrugs {
		err := fmt.Errorf("%w, got %d", ErrInvalidInput, len(unique))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	profiles := make([]*safety.Profile, len(unique))
	resolveErrs := make([]error, len(unique))

	var wg sync.WaitGroup
	for i, name := range unique {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			profiles[i], resolveErrs[i] = c.resolver.Resolve(ctx, name)
		}(i, name)
	}
	wg.Wait()

	entries := make([]Entry, 0, len(unique))
	var omitted []Omission
	var failures []Failure
	for i, name := range unique {
		if resolveErrs[i] != nil {
			failures = append(failures, Failure{DrugName: name, Err: resolveErrs[i]})
			omitted = append(omitted, Omission{DrugName: name, Reason: resolveErrs[i].Error()})
			continue
		}
		entries = append(entries, Entry{
			DrugName:    profiles[i].DrugName,
			SafetyScore: profiles[i].SafetyScore,
			TopConcern:  profiles[i].TopConcern,
		})
	}

	if len(entries) < minDrugs {
		err := &PartialFailureError{Failures: failures}
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].SafetyScore > entries[b].SafetyScore
	})

	span.SetAttributes(
		attribute.Int("drug.compared", len(entries)),
		attribute.Int("drug.omitted", len(omitted)),
	)

	return &Result{
		Entries:        entries,
		Recommendation: recommend(entries),
		Omitted:        omitted,
		PartialFailure: len(omitted) > 0,
	}, nil
}

// dedupe drops empty names and duplicates under key normalization,
// keeping the first spelling of each drug in request order.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		key := cache.Normalize(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, name)
	}
	return unique
}

// Concern keywords that warrant an explicit caution in the
// recommendation. Stems match the inflected forms FDA reaction terms
// use (cardiac, cardiovascular, hepatic, hepatotoxicity).
var severityCategories = []struct {
	name  string
	stems []string
}{
	{"cardiovascular", []string{"cardi", "heart", "myocard"}},
	{"hepatic", []string{"hepat", "liver"}},
}

func severityCategory(concern string) string {
	lowered := strings.ToLower(concern)
	for _, category := range severityCategories {
		for _, stem := range category.stems {
			if strings.Contains(lowered, stem) {
				return category.name
			}
		}
	}
	return ""
}

// recommend names the top scorer and flags any entry whose leading
// concern falls in a high-severity category.
func recommend(entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s has the best safety profile.", entries[0].DrugName)
	for _, entry := range entries {
		if category := severityCategory(entry.TopConcern); category != "" {
			fmt.Fprintf(&b, " Note: %s shows a %s risk signal (%s).",
				entry.DrugName, category, entry.TopConcern)
		}
	}
	b.WriteString(" Consult healthcare provider for personalized advice.")
	return b.String()
}
