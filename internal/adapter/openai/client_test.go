package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/observability"
)

const testAPIKey = "test-key"

func testPrompt() domain.Prompt {
	return domain.Prompt{System: "you are a robot", User: "report the weather"}
}

func testClientFor(url string) *Client {
	return NewClient(testAPIKey, url, "gpt-4", 5*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func chatReply(content string) []byte {
	reply, _ := json.Marshal(chatResponse{
		Choices: []choice{{Message: chatMessage{Role: "assistant", Content: content}}},
	})
	return reply
}

func TestClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "report the weather", req.Messages[1].Content)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(chatReply(`{"confidence": 0.9}`))
	}))
	defer srv.Close()

	raw, err := testClientFor(srv.URL).Generate(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.JSONEq(t, `{"confidence": 0.9}`, string(raw))
}

func TestClient_Generate_MissingAPIKey(t *testing.T) {
	c := NewClient("", "http://unused", "gpt-4", time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := c.Generate(context.Background(), testPrompt())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}

func TestClient_Generate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer srv.Close()

	_, err := testClientFor(srv.URL).Generate(context.Background(), testPrompt())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write(chatReply(`{}`))
	}))
	defer srv.Close()

	c := NewClient(testAPIKey, srv.URL, "gpt-4", 50*time.Millisecond,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := c.Generate(context.Background(), testPrompt())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}

func TestClient_Generate_UndecodableEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not-json{{{"))
	}))
	defer srv.Close()

	_, err := testClientFor(srv.URL).Generate(context.Background(), testPrompt())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestClient_Generate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	_, err := testClientFor(srv.URL).Generate(context.Background(), testPrompt())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestClient_Generate_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClientFor(srv.URL)

	// Default gobreaker trips after more than five consecutive failures.
	for i := 0; i < 10; i++ {
		_, err := c.Generate(context.Background(), testPrompt())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
	}
	assert.Less(t, hits, 10, "breaker should stop forwarding requests")
}
