package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOpenAILLM_Generate(t *testing.T) {
	var received struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"rating\": 4}"}
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	client, err := NewOpenAILLM(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)

	reply, err := client.Generate(context.Background(), "Evaluate this answer")
	require.NoError(t, err)

	assert.Equal(t, `{"rating": 4}`, reply)
	assert.Equal(t, "gpt-4o-mini", received.Model)
	require.Len(t, received.Messages, 1)
	assert.Equal(t, "user", received.Messages[0].Role)
	assert.Equal(t, "Evaluate this answer", received.Messages[0].Content)
}

func TestOpenAILLM_GenerateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "bad request", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	client, err := NewOpenAILLM(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestValidateConfigs(t *testing.T) {
	assert.Error(t, ValidateOpenAIConfig(OpenAIConfig{}))
	assert.NoError(t, ValidateOpenAIConfig(OpenAIConfig{APIKey: "k"}))

	assert.Error(t, ValidateGeminiConfig(GeminiConfig{}))
	assert.Error(t, ValidateGeminiConfig(GeminiConfig{APIKey: "k", TopP: 1.5}))
	assert.NoError(t, ValidateGeminiConfig(GeminiConfig{APIKey: "k"}))
}

func TestMockLLM(t *testing.T) {
	ctx := context.Background()
	mock := NewMockLLM("first", "second")

	reply, _ := mock.Generate(ctx, "a")
	assert.Equal(t, "first", reply)
	reply, _ = mock.Generate(ctx, "b")
	assert.Equal(t, "second", reply)
	reply, _ = mock.Generate(ctx, "c")
	assert.Equal(t, "second", reply)
	assert.Equal(t, []string{"a", "b", "c"}, mock.Prompts())

	failing := NewFailingMockLLM(errors.New("boom"))
	_, err := failing.Generate(ctx, "a")
	assert.EqualError(t, err, "boom")
}

func TestDemoLLM(t *testing.T) {
	ctx := context.Background()
	demo := DemoLLM{}

	reply, err := demo.Generate(ctx, "Respond with ONLY a JSON array of strings (no markdown, no extra text).")
	require.NoError(t, err)
	var suggestions []string
	require.NoError(t, json.Unmarshal([]byte(reply), &suggestions))
	assert.NotEmpty(t, suggestions)

	reply, err = demo.Generate(ctx, "Respond with ONLY a JSON array (no markdown, no extra text) in this exact format:")
	require.NoError(t, err)
	var questions []map[string]string
	require.NoError(t, json.Unmarshal([]byte(reply), &questions))
	assert.Len(t, questions, 5)

	reply, err = demo.Generate(ctx, "Respond with ONLY a JSON object")
	require.NoError(t, err)
	var feedback map[string]any
	require.NoError(t, json.Unmarshal([]byte(reply), &feedback))
	assert.EqualValues(t, 3, feedback["rating"])
}
