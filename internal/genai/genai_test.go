package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/seodraft/internal/config"
	"github.com/hpungsan/seodraft/internal/errors"
)

const geminiOK = `{
  "candidates": [{"content": {"parts": [{"text": "# Title"}, {"text": "Body text"}]}}],
  "usageMetadata": {"promptTokenCount": 42, "candidatesTokenCount": 1234}
}`

func TestResponse_Text(t *testing.T) {
	tests := []struct {
		name   string
		resp   *Response
		want   string
		wantOK bool
	}{
		{"nil", nil, "", false},
		{"no parts", &Response{Success: true}, "", false},
		{"joined", &Response{Parts: []string{"a", "b"}}, "a\nb", true},
		{"blank parts", &Response{Parts: []string{"", " "}}, "\n ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.resp.Text()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestResponse_FirstPart(t *testing.T) {
	assert.Equal(t, "", (*Response)(nil).FirstPart())
	assert.Equal(t, "85", (&Response{Parts: []string{"85", "ignored"}}).FirstPart())
}

func TestUsage_Add(t *testing.T) {
	got := Usage{PromptTokens: 1, OutputTokens: 2}.Add(Usage{PromptTokens: 10, OutputTokens: 20})
	assert.Equal(t, Usage{PromptTokens: 11, OutputTokens: 22}, got)
}

func TestGemini_Success(t *testing.T) {
	var gotPath, gotKey, gotQuery string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("x-goog-api-key")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, geminiOK)
	}))
	defer srv.Close()

	g := NewGemini("secret-key", "gemini-2.0-flash", WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))
	resp, err := g.Complete(context.Background(), "write about coffee")
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Empty(t, gotQuery, "api key must not be in the URL")
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "write about coffee", gotBody["contents"].([]any)[0].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"])

	assert.True(t, resp.Success)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"# Title", "Body text"}, resp.Parts)
	assert.Equal(t, Usage{PromptTokens: 42, OutputTokens: 1234}, resp.Usage)
	text, ok := resp.Text()
	assert.True(t, ok)
	assert.Equal(t, "# Title\nBody text", text)
	assert.Equal(t, "gemini-2.0-flash", g.Name())
}

func TestGemini_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"candidates": [], "promptFeedback": {"blockReason": "SAFETY"}}`)
	}))
	defer srv.Close()

	resp, err := NewGemini("k", "m", WithBaseURL(srv.URL)).Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	_, ok := resp.Text()
	assert.False(t, ok)
	assert.Contains(t, string(resp.Raw), "SAFETY")
}

func TestGemini_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"code": 500, "message": "internal"}}`)
	}))
	defer srv.Close()

	resp, err := NewGemini("k", "m", WithBaseURL(srv.URL)).Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error": {"code": 500, "message": "internal"}}`, string(resp.Raw))
}

func TestGemini_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()

	resp, err := NewGemini("k", "m", WithBaseURL(srv.URL)).Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Raw)
}

func TestGemini_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewGemini("k", "m", WithBaseURL(srv.URL)).Complete(ctx, "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGemini_Redact(t *testing.T) {
	g := NewGemini("super-secret", "m")
	cause := fmt.Errorf("dial failed for super-secret: %w", context.Canceled)

	err := g.redact(cause)
	assert.NotContains(t, err.Error(), "super-secret")
	assert.ErrorIs(t, err, context.Canceled)

	plain := fmt.Errorf("nothing to hide")
	assert.Same(t, plain, g.redact(plain))
}

func TestOpenAI_Success(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "87"}}],
			"usage": {"prompt_tokens": 300, "completion_tokens": 2, "total_tokens": 302}
		}`)
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test", "gpt-4o-mini", srv.URL+"/", srv.Client())
	resp, err := o.Complete(context.Background(), "score this")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.True(t, strings.HasSuffix(gotPath, "/chat/completions"))
	assert.True(t, resp.Success)
	assert.Equal(t, "87", resp.FirstPart())
	assert.Equal(t, Usage{PromptTokens: 300, OutputTokens: 2}, resp.Usage)
}

func TestOpenAI_APIError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error": {"message": "overloaded", "type": "server_error"}}`)
	}))
	defer srv.Close()

	resp, err := NewOpenAI("sk", "m", srv.URL+"/", srv.Client()).Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, 1, calls, "no retries")
}

func TestNew(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, _, err := New(config.GenerationConfig{Provider: config.ProviderGemini, Model: "m"}, nil)
		assert.True(t, errors.Is(err, errors.ErrNotConfigured))
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, _, err := New(config.GenerationConfig{Provider: "llama", APIKey: "k"}, nil)
		assert.True(t, errors.Is(err, errors.ErrNotConfigured))
	})

	t.Run("shared scorer", func(t *testing.T) {
		gen, score, err := New(config.GenerationConfig{Provider: config.ProviderGemini, Model: "m", APIKey: "k"}, nil)
		require.NoError(t, err)
		assert.Same(t, gen, score)
		assert.IsType(t, &Gemini{}, gen)
	})

	t.Run("separate scoring model", func(t *testing.T) {
		gen, score, err := New(config.GenerationConfig{
			Provider: config.ProviderOpenAI, Model: "big", ScoringModel: "small", APIKey: "k",
		}, nil)
		require.NoError(t, err)
		assert.IsType(t, &OpenAI{}, gen)
		assert.Equal(t, "big", gen.Name())
		assert.Equal(t, "small", score.Name())
	})
}
