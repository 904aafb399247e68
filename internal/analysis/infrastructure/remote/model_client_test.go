package remote

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	shareddomain "github.com/felixgeelhaar/moodsphere/internal/shared/domain"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestModelClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-Id"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "data:image/png;base64,AAAA", body["image"])

		_ = json.NewEncoder(w).Encode(map[string]string{"dominant_emotion": "Happy"})
	}))
	defer server.Close()

	client := NewModelClient(DefaultClientConfig("face-model", server.URL), nil, testLogger())

	ctx := observability.WithRequestID(context.Background(), "req-1")
	var out struct {
		DominantEmotion string `json:"dominant_emotion"`
	}
	err := client.Post(ctx, map[string]string{"image": "data:image/png;base64,AAAA"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Happy", out.DominantEmotion)
}

func TestModelClient_ErrorStatusIsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	metrics := observability.NewInMemoryMetrics()
	client := NewModelClient(DefaultClientConfig("speech-model", server.URL), metrics, testLogger())

	var out map[string]any
	err := client.Post(context.Background(), map[string]string{"audio": "x"}, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, shareddomain.ErrUpstreamUnavailable)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricUpstreamFailures, observability.T("upstream", "speech-model")))
}

func TestModelClient_UnreachableIsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewModelClient(DefaultClientConfig("face-model", url), nil, testLogger())

	var out map[string]any
	err := client.Post(context.Background(), map[string]string{}, &out)
	assert.ErrorIs(t, err, shareddomain.ErrUpstreamUnavailable)
}

func TestModelClient_MissingEndpoint(t *testing.T) {
	client := NewModelClient(DefaultClientConfig("face-model", ""), nil, testLogger())

	var out map[string]any
	err := client.Post(context.Background(), map[string]string{}, &out)
	assert.ErrorIs(t, err, shareddomain.ErrUpstreamUnavailable)
}

func TestModelClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := DefaultClientConfig("face-model", server.URL)
	cfg.FailureThreshold = 2
	cfg.Cooldown = time.Minute
	client := NewModelClient(cfg, nil, testLogger())

	var out map[string]any
	for i := 0; i < 2; i++ {
		require.Error(t, client.Post(context.Background(), map[string]string{}, &out))
	}
	assert.Equal(t, "open", client.State())

	err := client.Post(context.Background(), map[string]string{}, &out)
	assert.ErrorIs(t, err, shareddomain.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "circuit open")
	assert.Equal(t, int32(2), calls.Load())
}

func TestModelClient_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewModelClient(DefaultClientConfig("face-model", server.URL), nil, testLogger())

	var out map[string]any
	err := client.Post(context.Background(), map[string]string{}, &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, shareddomain.ErrUpstreamUnavailable)
	assert.Equal(t, "closed", client.State())
}
