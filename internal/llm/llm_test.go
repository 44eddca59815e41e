package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionResponse(content string) string {
	resp := map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
				"index":         0,
			},
		},
	}
	out, _ := json.Marshal(resp)
	return string(out)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		wantNil   bool
		errSubstr string
	}{
		{
			name: "openai with key",
			cfg:  Config{Provider: "openai", APIKey: "test-key"},
		},
		{
			name:      "openai without key",
			cfg:       Config{Provider: "openai"},
			wantErr:   true,
			errSubstr: "API key",
		},
		{
			name:    "empty provider disables narratives",
			cfg:     Config{},
			wantNil: true,
		},
		{
			name:    "none provider disables narratives",
			cfg:     Config{Provider: "none"},
			wantNil: true,
		},
		{
			name:      "unknown provider",
			cfg:       Config{Provider: "carrier-pigeon"},
			wantErr:   true,
			errSubstr: "unsupported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, client)
			} else {
				assert.NotNil(t, client)
			}
		})
	}
}

func TestOpenAIClient_GenerateNarrative(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])

		_, _ = w.Write([]byte(completionResponse("  Stock will run out in three days.  ")))
	}))
	defer server.Close()

	client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	text, err := client.GenerateNarrative(context.Background(), "describe SKU-1")
	require.NoError(t, err)
	assert.Equal(t, "Stock will run out in three days.", text)
}

func TestOpenAIClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		errSubstr string
	}{
		{
			name:      "server error",
			status:    http.StatusInternalServerError,
			body:      `{"error": "boom"}`,
			errSubstr: "status 500",
		},
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"error": "slow down"}`,
			errSubstr: "rate limited",
		},
		{
			name:      "no choices",
			status:    http.StatusOK,
			body:      `{"id": "x", "choices": []}`,
			errSubstr: "no completion choices",
		},
		{
			name:      "empty content",
			status:    http.StatusOK,
			body:      completionResponse("   "),
			errSubstr: "empty narrative",
		},
		{
			name:      "malformed body",
			status:    http.StatusOK,
			body:      "not json",
			errSubstr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.GenerateNarrative(context.Background(), "prompt")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestRateLimiter_AcquireAndExhaust(t *testing.T) {
	rl := newRateLimiter(2)
	defer rl.Close()

	assert.True(t, rl.tryAcquire())
	assert.True(t, rl.tryAcquire())
	assert.False(t, rl.tryAcquire(), "bucket should be empty")
}

func TestRateLimiter_WaitRespectsContext(t *testing.T) {
	rl := newRateLimiter(1)
	defer rl.Close()

	require.True(t, rl.tryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := rl.wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type flakyClient struct {
	failures int
	calls    int
}

func (f *flakyClient) GenerateNarrative(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("transient failure")
	}
	return "recovered narrative", nil
}

func TestNarrator_RetriesTransientFailures(t *testing.T) {
	client := &flakyClient{failures: 2}
	narrator, err := NewNarrator(client, Config{RequestsPerMinute: 600})
	require.NoError(t, err)
	defer narrator.Close()

	text, err := narrator.GenerateNarrative(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "recovered narrative", text)
	assert.Equal(t, 3, client.calls)
}

func TestNarrator_ExhaustsRetries(t *testing.T) {
	client := &flakyClient{failures: 10}
	narrator, err := NewNarrator(client, Config{RequestsPerMinute: 600})
	require.NoError(t, err)
	defer narrator.Close()

	_, err = narrator.GenerateNarrative(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, 3, client.calls)
}

func TestNarrator_RequiresClient(t *testing.T) {
	_, err := NewNarrator(nil, Config{})
	assert.Error(t, err)
}
