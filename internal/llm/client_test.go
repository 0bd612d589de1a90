package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"contextAgent/internal/config"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePromptLogger struct {
	calls        int
	instructions string
	input        string
	response     string
	model        string
	tokens       int
	err          error
}

func (f *fakePromptLogger) LogLLMRequest(ctx context.Context, instructions, inputText, responseText, model string, tokensUsed int) error {
	f.calls++
	f.instructions = instructions
	f.input = inputText
	f.response = responseText
	f.model = model
	f.tokens = tokensUsed
	return f.err
}

func newTestServer(t *testing.T, status int, body string, seen *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const okBody = `{"id":"cmpl-1","object":"chat.completion","model":"gpt-test",
"choices":[{"index":0,"message":{"role":"assistant","content":"OK token=abc123"},"finish_reason":"stop"}],
"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`

func TestClientGenerate(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := newTestServer(t, http.StatusOK, okBody, &seen)
	plog := &fakePromptLogger{}

	c := NewClient(config.OpenAI{KeyAI: "sk-test", Model: "gpt-test", BaseURL: srv.URL + "/v1", SafetyIdentifier: "user-1"}, plog, nil)

	res, err := c.Generate(context.Background(), "Reply with exactly OK.", "Return OK; password=hunter2")
	require.NoError(t, err)

	assert.Equal(t, "OK token=abc123", res.Text)
	assert.IsType(t, openai.ChatCompletionResponse{}, res.Raw)

	require.Len(t, seen.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, seen.Messages[0].Role)
	assert.Equal(t, "Reply with exactly OK.", seen.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, seen.Messages[1].Role)
	assert.Equal(t, "user-1", seen.User)
	assert.Equal(t, "gpt-test", seen.Model)

	require.Equal(t, 1, plog.calls)
	assert.Equal(t, "Return OK; <GENERIC_TOKEN_REDACTED>", plog.input)
	assert.Equal(t, "OK <GENERIC_TOKEN_REDACTED>", plog.response)
	assert.Equal(t, 5, plog.tokens)
	assert.Equal(t, "gpt-test", plog.model)
}

func TestClientGeneratePromptLoggerFailureIsNotFatal(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, okBody, nil)
	plog := &fakePromptLogger{err: errors.New("db down")}

	c := NewClient(config.OpenAI{KeyAI: "sk-test", Model: "gpt-test", BaseURL: srv.URL}, plog, nil)

	res, err := c.Generate(context.Background(), "i", "x")
	require.NoError(t, err)
	assert.Equal(t, "OK token=abc123", res.Text)
}

func TestClientGenerateAuthError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized,
		`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`, nil)

	c := NewClient(config.OpenAI{KeyAI: "bad", Model: "gpt-test", BaseURL: srv.URL}, nil, nil)

	_, err := c.Generate(context.Background(), "i", "x")
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.False(t, IsNetwork(err))
}

func TestClientGenerateNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(config.OpenAI{KeyAI: "sk", Model: "gpt-test", BaseURL: url}, nil, nil)

	_, err := c.Generate(context.Background(), "i", "x")
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
}

func TestClientGenerateEmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`, nil)

	c := NewClient(config.OpenAI{KeyAI: "sk", Model: "gpt-test", BaseURL: srv.URL}, nil, nil)

	_, err := c.Generate(context.Background(), "i", "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClientGenerateRateLimited(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, okBody, nil)

	c := NewClientWithRateLimit(config.OpenAI{KeyAI: "sk", Model: "gpt-test", BaseURL: srv.URL}, nil, nil, 60, 10)

	_, err := c.Generate(context.Background(), "instructions", "far too much input")
	assert.ErrorIs(t, err, ErrRateLimited)
}
