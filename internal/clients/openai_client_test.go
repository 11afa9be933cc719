package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatCompletionHandler(t *testing.T, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		assert.Len(t, messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	srv := httptest.NewServer(chatCompletionHandler(t, `{"documents":[]}`))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL, "gpt-4o-mini", option.WithMaxRetries(0))
	out, err := c.Complete(context.Background(), "system prompt", "user message")
	require.NoError(t, err)
	assert.Equal(t, `{"documents":[]}`, out)
}

func TestOpenAIClient_EmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(chatCompletionHandler(t, "   "))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL, "gpt-4o-mini", option.WithMaxRetries(0))
	_, err := c.Complete(context.Background(), "system prompt", "user message")
	assert.Error(t, err)
}

func TestOpenAIClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad model","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL, "gpt-4o-mini", option.WithMaxRetries(0))
	_, err := c.Complete(context.Background(), "system prompt", "user message")
	assert.Error(t, err)
}
