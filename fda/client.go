package fda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonwraymond/drugsafety/resilience"
)

const (
	// DefaultBaseURL is the openFDA drug API root.
	DefaultBaseURL = "https://api.fda.gov/drug"

	eventsPath      = "/event.json"
	enforcementPath = "/enforcement.json"

	// queryLimit is the maximum records requested per provider call.
	queryLimit = 100

	// maxSampledEvents caps how many reports feed the tallies.
	maxSampledEvents = 50

	// lookbackYears bounds the event search window.
	lookbackYears = 2
)

// Config configures the openFDA client.
type Config struct {
	// BaseURL is the provider API root.
	// Default: DefaultBaseURL
	BaseURL string

	// APIKey is an optional provider API key appended to every call.
	APIKey string

	// HTTPClient is the underlying transport.
	// Default: &http.Client{Timeout: 30s}
	HTTPClient *http.Client

	// Limiter gates every provider call.
	// Default: resilience.NewRateLimiter with its defaults (60/min)
	Limiter *resilience.RateLimiter

	// Timeout bounds each provider call.
	// Default: resilience.NewTimeout with its defaults (10s)
	Timeout *resilience.Timeout
}

// Client fetches adverse-event and recall data from openFDA.
//
// Contract:
//   - Fetch performs exactly two logical provider queries, each behind
//     one limiter acquisition and a per-call deadline.
//   - A drug unknown to the provider fails with ErrNotFound; missing
//     enforcement records are not an error and yield zero recalls.
//   - Provider throttling (HTTP 429) surfaces as
//     resilience.ErrRateLimited.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *resilience.RateLimiter
	timeout    *resilience.Timeout
}

// New creates an openFDA client.
func New(config Config) *Client {
	// Apply defaults
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if config.Limiter == nil {
		config.Limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{})
	}
	if config.Timeout == nil {
		config.Timeout = resilience.NewTimeout(resilience.TimeoutConfig{})
	}

	return &Client{
		httpClient: config.HTTPClient,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		limiter:    config.Limiter,
		timeout:    config.Timeout,
	}
}

// Fetch retrieves adverse events and ongoing recalls for drugName and
// merges them into one RawSafetyData.
func (c *Client) Fetch(ctx context.Context, drugName string) (*RawSafetyData, error) {
	events, err := c.searchEvents(ctx, drugName)
	if err != nil {
		return nil, err
	}

	recalls, totalRecalls, err := c.searchRecalls(ctx, drugName)
	if err != nil {
		return nil, err
	}

	return aggregate(drugName, events, recalls, totalRecalls), nil
}

// eventsEnvelope is the provider's /event.json response shape.
type eventsEnvelope struct {
	Meta struct {
		Results struct {
			Total int `json:"total"`
		} `json:"results"`
	} `json:"meta"`
	Results []adverseEvent `json:"results"`
}

type adverseEvent struct {
	Serious string `json:"serious"`
	Patient struct {
		OnsetAge  string `json:"patientonsetage"`
		Reactions []struct {
			ReactionMedDRAPT string `json:"reactionmeddrapt"`
		} `json:"reaction"`
	} `json:"patient"`
}

// enforcementEnvelope is the provider's /enforcement.json response shape.
type enforcementEnvelope struct {
	Meta struct {
		Results struct {
			Total int `json:"total"`
		} `json:"results"`
	} `json:"meta"`
	Results []Recall `json:"results"`
}

// eventQueries returns the search expressions tried in order until one
// returns results. Each carries the receivedate lookback window.
func eventQueries(name string) []string {
	to := time.Now().UTC()
	from := to.AddDate(-lookbackYears, 0, 0)
	window := fmt.Sprintf("receivedate:[%s TO %s]", from.Format("20060102"), to.Format("20060102"))

	return []string{
		fmt.Sprintf(`patient.drug.openfda.brand_name:%q AND %s`, name, window),
		fmt.Sprintf(`patient.drug.openfda.generic_name:%q AND %s`, name, window),
		fmt.Sprintf(`patient.drug.medicinalproduct:%q AND %s`, strings.ToUpper(name), window),
	}
}

func (c *Client) searchEvents(ctx context.Context, name string) (*eventsEnvelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	for _, query := range eventQueries(name) {
		params := url.Values{}
		params.Set("search", query)
		params.Set("limit", strconv.Itoa(queryLimit))

		var env eventsEnvelope
		status, err := c.get(ctx, eventsPath, params, &env)
		if err != nil {
			return nil, err
		}

		switch {
		case status == http.StatusOK && len(env.Results) > 0:
			return &env, nil
		case status == http.StatusOK || status == http.StatusNotFound:
			// The provider answers 404 when a query matches nothing.
			// Try the next shape.
			continue
		default:
			return nil, fmt.Errorf("%w: events endpoint returned status %d", ErrUpstreamUnavailable, status)
		}
	}

	return nil, fmt.Errorf("%w %q", ErrNotFound, name)
}

func (c *Client) searchRecalls(ctx context.Context, name string) ([]Recall, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	params := url.Values{}
	params.Set("search", fmt.Sprintf(`openfda.generic_name:%q AND status:"Ongoing"`, name))
	params.Set("limit", strconv.Itoa(queryLimit))

	var env enforcementEnvelope
	status, err := c.get(ctx, enforcementPath, params, &env)
	if err != nil {
		return nil, 0, err
	}

	switch status {
	case http.StatusOK:
		return env.Results, env.Meta.Results.Total, nil
	case http.StatusNotFound:
		// No ongoing enforcement records for this drug.
		return nil, 0, nil
	default:
		return nil, 0, fmt.Errorf("%w: enforcement endpoint returned status %d", ErrUpstreamUnavailable, status)
	}
}

// get performs one provider call under the per-call deadline. The body
// is decoded into out only on a 200; the status code is always
// returned so callers can branch on 404.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) (int, error) {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	callURL := c.baseURL + endpoint + "?" + params.Encode()

	var status int
	err := c.timeout.Execute(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, callURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		if status != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
	if err != nil {
		switch {
		case errors.Is(err, resilience.ErrTimeout):
			return 0, fmt.Errorf("%w: %s", ErrUpstreamTimeout, endpoint)
		case errors.Is(err, context.Canceled):
			return 0, err
		default:
			return 0, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
	}

	if status == http.StatusTooManyRequests {
		return status, fmt.Errorf("fda: provider throttled request: %w", resilience.ErrRateLimited)
	}
	return status, nil
}

// aggregate builds RawSafetyData from provider responses. Tallies run
// over the first maxSampledEvents reports in response order.
func aggregate(name string, events *eventsEnvelope, recalls []Recall, totalRecalls int) *RawSafetyData {
	raw := &RawSafetyData{
		DrugName:     name,
		TotalEvents:  events.Meta.Results.Total,
		Recalls:      recalls,
		TotalRecalls: totalRecalls,
	}

	sample := events.Results
	if len(sample) > maxSampledEvents {
		sample = sample[:maxSampledEvents]
	}
	raw.SampledEvents = len(sample)

	counts := make(map[string]int)
	var firstSeen []string

	for _, event := range sample {
		if event.Serious == "1" {
			raw.SeriousCount++
		}

		for _, reaction := range event.Patient.Reactions {
			effect := reaction.ReactionMedDRAPT
			if effect == "" {
				effect = "Unknown"
			}
			if _, seen := counts[effect]; !seen {
				firstSeen = append(firstSeen, effect)
			}
			counts[effect]++
		}

		if age, err := strconv.ParseFloat(event.Patient.OnsetAge, 64); err == nil {
			switch {
			case age >= 65:
				raw.AgeBuckets.Elderly++
			case age >= 40:
				raw.AgeBuckets.MiddleAged++
			}
		}
	}

	raw.ReactionCounts = make([]ReactionCount, 0, len(firstSeen))
	for _, effect := range firstSeen {
		raw.ReactionCounts = append(raw.ReactionCounts, ReactionCount{Reaction: effect, Count: counts[effect]})
	}

	return raw
}
