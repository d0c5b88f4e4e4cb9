package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/auv-mission-bridge/internal/telemetry"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*OpenAIClient, *telemetry.Recorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	rec := &telemetry.Recorder{}
	c, err := NewOpenAIClient(Config{
		APIKey:  "hf-test-token",
		BaseURL: srv.URL + "/v1",
		Model:   "test-model",
	}, rec)
	require.NoError(t, err)
	return c, rec
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "cmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []any{
			map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
	})
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(Config{}, nil)
	assert.Error(t, err)
}

func TestComplete_SendsSingleUserMessage(t *testing.T) {
	var got openai.ChatCompletionRequest
	var auth, path string

	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeCompletion(w, `{"transit_speed":2.0}`)
	})

	ctx := telemetry.WithInvocation(context.Background(), "inv-42")
	raw, err := c.Complete(ctx, "the prompt")
	require.NoError(t, err)

	assert.Equal(t, `{"transit_speed":2.0}`, raw)
	assert.Equal(t, "Bearer hf-test-token", auth)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "the prompt", got.Messages[0].Content)

	assert.Equal(t, []telemetry.Stage{telemetry.StageInferenceRequest, telemetry.StageInferenceResponse}, rec.Stages())
	e, ok := rec.Last(telemetry.StageInferenceResponse)
	require.True(t, ok)
	assert.Equal(t, "inv-42", e.InvocationID)
	assert.Equal(t, `{"transit_speed":2.0}`, e.Fields["raw"])
}

func TestComplete_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
	}{
		{
			name: "api error body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"message":"bad token","type":"auth"}}`))
			},
			status: http.StatusUnauthorized,
		},
		{
			name: "plain text gateway error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("upstream down"))
			},
			status: http.StatusBadGateway,
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
			},
		},
		{
			name: "generated_text shape",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[{"generated_text":"{}"}]`))
			},
		},
		{
			name: "choice without message",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices":[{}]}`))
			},
		},
		{
			name: "message without content",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant"}}]}`))
			},
		},
		{
			name: "null content",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":null}}]}`))
			},
		},
		{
			name: "envelope not json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`<html>oops</html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestClient(t, tt.handler)

			raw, err := c.Complete(context.Background(), "p")
			require.Error(t, err)
			assert.Empty(t, raw)

			var f *InferenceFailure
			require.True(t, errors.As(err, &f), "expected *InferenceFailure, got %T", err)
			assert.Equal(t, tt.status, f.Status)
			assert.NotEmpty(t, f.Reason)

			_, ok := rec.Last(telemetry.StageInferenceError)
			assert.True(t, ok)
		})
	}
}

func TestComplete_Timeout(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, "p")
	var f *InferenceFailure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "timeout", f.Reason)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestComplete_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewOpenAIClient(Config{APIKey: "k", BaseURL: url + "/v1"}, nil)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p")
	var f *InferenceFailure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, 0, f.Status)
	assert.Equal(t, "transport error", f.Reason)
}
