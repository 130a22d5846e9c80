package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/jonwraymond/drugsafety/safety"
)

const systemPrompt = "You are a medical safety expert who provides clear, factual drug safety summaries. " +
	"Be factual and avoid overstating risks. " +
	`Return ONLY valid JSON: {"summary": "2-3 sentence patient-friendly summary", "top_concern": "single highest-priority caution"}`

// Config configures the OpenAI client.
type Config struct {
	// APIKey authenticates against the provider. Empty disables the
	// client.
	APIKey string

	// Model selects the chat model.
	// Default: "gpt-4o-mini"
	Model string

	// MaxTokens bounds the completion size.
	// Default: 200
	MaxTokens int64

	// BaseURL overrides the provider endpoint, used in tests.
	BaseURL string
}

// Client generates safety summaries via OpenAI chat completions.
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int64
	enabled   bool
}

var _ safety.TextGenerator = (*Client)(nil)

// New creates an OpenAI-backed generator. Without an API key the
// client is disabled and GenerateSummary always fails with ErrDisabled.
func New(config Config) *Client {
	if config.APIKey == "" {
		return &Client{enabled: false}
	}

	// Apply defaults
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 200
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &Client{
		client:    &client,
		model:     config.Model,
		maxTokens: config.MaxTokens,
		enabled:   true,
	}
}

// Enabled reports whether the client can generate text.
func (c *Client) Enabled() bool {
	return c.enabled
}

// GenerateSummary asks the model for a short safety summary and top
// concern built from the numeric facts in req.
func (c *Client) GenerateSummary(ctx context.Context, req safety.SummaryRequest) (safety.SummaryResult, error) {
	if !c.enabled {
		return safety.SummaryResult{}, ErrDisabled
	}

	jsonObjectFormat := shared.NewResponseFormatJSONObjectParam()

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(req)),
		},
		Model:       shared.ChatModel(c.model),
		Temperature: param.NewOpt(0.1),
		MaxTokens:   param.NewOpt(c.maxTokens),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &jsonObjectFormat,
		},
	})
	if err != nil {
		return safety.SummaryResult{}, fmt.Errorf("ai: completion call failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return safety.SummaryResult{}, ErrEmptyCompletion
	}

	var out struct {
		Summary    string `json:"summary"`
		TopConcern string `json:"top_concern"`
	}
	content := completion.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return safety.SummaryResult{}, fmt.Errorf("ai: parse completion: %w", err)
	}

	return safety.SummaryResult{
		Summary:    strings.TrimSpace(out.Summary),
		TopConcern: strings.TrimSpace(out.TopConcern),
	}, nil
}

// userPrompt lays out the numeric facts for the model.
func userPrompt(req safety.SummaryRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following drug safety data for %s and provide a brief, clear 2-3 sentence safety summary:\n\n", req.DrugName)
	fmt.Fprintf(&b, "Total Adverse Events Reported: %d\n", req.TotalEvents)
	if len(req.TopEffects) > 0 {
		fmt.Fprintf(&b, "Top Side Effects: %s\n", strings.Join(req.TopEffects, ", "))
	}
	if len(req.Demographics) > 0 {
		fmt.Fprintf(&b, "High-Risk Age Groups: %s\n", strings.Join(req.Demographics, ", "))
	}
	fmt.Fprintf(&b, "Ongoing Recalls: %d\n", req.ActiveRecalls)
	if req.SampledEvents > 0 {
		fmt.Fprintf(&b, "Serious Reports: %d of %d sampled\n", req.SeriousCount, req.SampledEvents)
	}
	b.WriteString("\nHighlight the main safety concerns and who should be careful.")
	return b.String()
}
