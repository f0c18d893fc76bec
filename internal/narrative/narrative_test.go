package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeProvider) Ping(context.Context) error { return f.err }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestChain_FallsThroughProviders(t *testing.T) {
	first := &fakeProvider{name: "ollama", err: errors.New("connection refused")}
	second := &fakeProvider{name: "anthropic", text: "### Executive Summary\nAll good."}

	c := NewChain(quietLogger(), time.Second, first, nil, second)
	text, err := c.Narrate(context.Background(), Request{Prompt: "p", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "### Executive Summary\nAll good.", text)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)

	assert.Equal(t, map[string]string{"ollama": "offline", "anthropic": "connected"}, c.Status(context.Background()))
}

func TestChain_EmptyTextIsFailure(t *testing.T) {
	c := NewChain(quietLogger(), 0, &fakeProvider{name: "ollama"})
	_, err := c.Narrate(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestChain_NoProviders(t *testing.T) {
	_, err := NewChain(quietLogger(), 0).Narrate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = Disabled{}.Narrate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt("hi", "Focus on liquidity.")
	assert.True(t, strings.HasPrefix(p, "You are the WealthWise Senior Financial Analyst."))
	assert.Contains(t, p, "Focus on liquidity.")
	assert.Contains(t, p, "हिंदी में जवाब दें")

	plain := SystemPrompt("xx", "")
	assert.Equal(t, analystPersona, plain)

	assert.True(t, SupportedLanguage("TA"))
	assert.False(t, SupportedLanguage("fr"))
}

func TestOllamaClient_Generate(t *testing.T) {
	var got ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(map[string]any{"response": "  Liquidity is tight.  ", "done": true})
		case "/api/tags":
			_ = json.NewEncoder(w).Encode(map[string]any{"models": []any{}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL+"/", "gemma:2b")
	text, err := c.Generate(context.Background(), "SYSTEM", "USER")
	require.NoError(t, err)
	assert.Equal(t, "Liquidity is tight.", text)

	assert.Equal(t, "gemma:2b", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, "<start_of_turn>system\nSYSTEM<end_of_turn>\n<start_of_turn>user\nUSER<end_of_turn>\n<start_of_turn>model\n", got.Prompt)
	assert.Equal(t, 30, got.Options.TopK)
	assert.Equal(t, 1024, got.Options.NumPredict)

	assert.NoError(t, c.Ping(context.Background()))
}

func TestOllamaClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "missing")
	_, err := c.Generate(context.Background(), "", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Error(t, c.Ping(context.Background()))

	srv.Close()
	_, err = c.Generate(context.Background(), "", "p")
	assert.Error(t, err)
}

func TestAnthropicClient_Generate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "Risk is **HIGH**."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	c, err := NewAnthropicClient("test-key", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	require.NoError(t, err)

	text, err := c.Generate(context.Background(), "SYSTEM", "Assess risk")
	require.NoError(t, err)
	assert.Equal(t, "Risk is **HIGH**.", text)
	assert.Equal(t, defaultAnthropicModel, body["model"])
	assert.NotNil(t, body["system"])

	_, err = NewAnthropicClient("", "m")
	assert.Error(t, err)
}
