package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CollectivaT-dev/ladinobot/internal/config"
)

func openaiTestConfig(baseURL string) *config.LLMConfig {
	return &config.LLMConfig{
		Provider:       "openai",
		Model:          "gpt-4o-mini",
		APIKey:         "test-key",
		BaseURL:        baseURL,
		MaxTokens:      2048,
		Temperature:    1.0,
		TimeoutSeconds: 5,
	}
}

func TestOpenAIInvokeSuccess(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "Hi there"},
				"finish_reason": "stop"
			}],
			"usage": {
				"prompt_tokens": 9,
				"completion_tokens": 3,
				"total_tokens": 12,
				"prompt_tokens_details": {"cached_tokens": 4}
			}
		}`))
	}))
	defer srv.Close()

	inv := NewOpenAIInvoker(openaiTestConfig(srv.URL + "/v1"))

	text, usage := inv.Invoke(context.Background(), "You are Estreya.", AssembledRequest{Messages: []Message{
		{Role: RoleUser, Content: "knowledge", Cached: true},
		{Role: RoleUser, Content: "Hello"},
	}})

	assert.Equal(t, "Hi there", text)
	assert.Equal(t, UsageStats{InputTokens: 9, OutputTokens: 3, CacheReadTokens: 4}, usage)

	// system 提示词作为首条消息发送
	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 3)
	first := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "You are Estreya.", first["content"])
}

func TestOpenAIInvokeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	inv := NewOpenAIInvoker(openaiTestConfig(srv.URL + "/v1"))

	text, usage := inv.Invoke(context.Background(), "sys", AssembledRequest{Messages: []Message{
		{Role: RoleUser, Content: "Hello"},
	}})

	assert.Equal(t, FallbackReply, text)
	assert.Equal(t, UsageStats{}, usage)
}

func TestOpenAIInvokeEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-2",
			"object": "chat.completion",
			"choices": [],
			"usage": {"prompt_tokens": 5, "completion_tokens": 0, "total_tokens": 5}
		}`))
	}))
	defer srv.Close()

	inv := NewOpenAIInvoker(openaiTestConfig(srv.URL + "/v1"))

	text, usage := inv.Invoke(context.Background(), "sys", AssembledRequest{Messages: []Message{
		{Role: RoleUser, Content: "Hello"},
	}})

	assert.Equal(t, FallbackReply, text)
	assert.Equal(t, UsageStats{InputTokens: 5}, usage)
}

func TestNewInvokerSelectsProvider(t *testing.T) {
	_, err := NewInvoker(&config.LLMConfig{Provider: "mystery"})
	assert.Error(t, err)

	inv, err := NewInvoker(&config.LLMConfig{Provider: "anthropic", APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicInvoker{}, inv)

	inv, err = NewInvoker(&config.LLMConfig{Provider: "openai", APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIInvoker{}, inv)
}
