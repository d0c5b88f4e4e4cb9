package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Vovarama1992/auv-mission-bridge/internal/telemetry"
)

const (
	DefaultBaseURL = "https://router.huggingface.co/together/v1"
	DefaultModel   = "meta-llama/Llama-3.2-3B-Instruct-Turbo"
)

// Config is passed explicitly; the client never reads the environment.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

type OpenAIClient struct {
	client   *openai.Client
	model    string
	observer telemetry.Observer
}

func NewOpenAIClient(cfg Config, observer telemetry.Observer) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if observer == nil {
		observer = telemetry.Nop
	}

	conf := openai.DefaultConfig(cfg.APIKey)
	conf.BaseURL = cfg.BaseURL
	if cfg.HTTPClient != nil {
		conf.HTTPClient = cfg.HTTPClient
	}

	return &OpenAIClient{
		client:   openai.NewClientWithConfig(conf),
		model:    cfg.Model,
		observer: observer,
	}, nil
}

// Complete sends the prompt as a single user message and returns
// choices[0].message.content. No retries.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	id := telemetry.InvocationFrom(ctx)
	start := time.Now()

	c.observer.Observe(telemetry.Event{
		InvocationID: id,
		Stage:        telemetry.StageInferenceRequest,
		At:           start,
		Fields: map[string]any{
			"model":      c.model,
			"prompt_len": len(prompt),
		},
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", c.fail(id, start, classify(err))
	}

	if len(resp.Choices) == 0 {
		return "", c.fail(id, start, &InferenceFailure{Reason: "malformed envelope: no choices"})
	}

	raw := resp.Choices[0].Message.Content
	if raw == "" {
		return "", c.fail(id, start, &InferenceFailure{Reason: "malformed envelope: empty content"})
	}

	c.observer.Observe(telemetry.Event{
		InvocationID: id,
		Stage:        telemetry.StageInferenceResponse,
		At:           time.Now(),
		Fields: map[string]any{
			"model":       c.model,
			"duration_ms": time.Since(start).Milliseconds(),
			"raw":         raw,
		},
	})

	return raw, nil
}

func (c *OpenAIClient) fail(id string, start time.Time, f *InferenceFailure) error {
	c.observer.Observe(telemetry.Event{
		InvocationID: id,
		Stage:        telemetry.StageInferenceError,
		At:           time.Now(),
		Fields: map[string]any{
			"model":       c.model,
			"status":      f.Status,
			"reason":      f.Reason,
			"duration_ms": time.Since(start).Milliseconds(),
		},
		Err: f.Err,
	})
	return f
}

func classify(err error) *InferenceFailure {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &InferenceFailure{Status: apiErr.HTTPStatusCode, Reason: "api error", Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &InferenceFailure{Status: reqErr.HTTPStatusCode, Reason: "request error", Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &InferenceFailure{Reason: "timeout", Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &InferenceFailure{Reason: "canceled", Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &InferenceFailure{Reason: "malformed envelope", Err: err}
	}

	return &InferenceFailure{Reason: "transport error", Err: err}
}
