// Package remote calls the face and speech emotion model services over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	shareddomain "github.com/felixgeelhaar/moodsphere/internal/shared/domain"
	"github.com/felixgeelhaar/moodsphere/pkg/observability"
	"github.com/sony/gobreaker/v2"
)

// ClientConfig configures a ModelClient.
type ClientConfig struct {
	// Name labels the breaker and log lines, e.g. "face-model".
	Name string

	// Endpoint is the full URL the request body is POSTed to.
	Endpoint string

	// Timeout bounds a single request.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens
	// the breaker.
	FailureThreshold uint32

	// Cooldown is how long the breaker stays open.
	Cooldown time.Duration

	// MaxRequests is the number of trial requests allowed half-open.
	MaxRequests uint32
}

// DefaultClientConfig returns the default breaker and timeout settings.
func DefaultClientConfig(name, endpoint string) ClientConfig {
	return ClientConfig{
		Name:             name,
		Endpoint:         endpoint,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		MaxRequests:      1,
	}
}

// ModelClient posts JSON to a model service behind a circuit breaker.
type ModelClient struct {
	cfg     ClientConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewModelClient creates a client for one model endpoint.
func NewModelClient(cfg ClientConfig, metrics observability.Metrics, logger *slog.Logger) *ModelClient {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	c := &ModelClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: metrics,
		logger:  logger.With("component", cfg.Name),
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return c
}

// State returns the breaker state name.
func (c *ModelClient) State() string {
	return c.breaker.State().String()
}

// Post sends body as JSON and decodes the JSON response into out.
// Transport failures, non-2xx responses and an open breaker all wrap
// ErrUpstreamUnavailable.
func (c *ModelClient) Post(ctx context.Context, body, out any) error {
	if c.cfg.Endpoint == "" {
		return fmt.Errorf("%s: no endpoint configured: %w", c.cfg.Name, shareddomain.ErrUpstreamUnavailable)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", c.cfg.Name, err)
	}

	start := time.Now()
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, payload)
	})
	c.metrics.Timing(observability.MetricOperationDuration, time.Since(start),
		observability.T("operation", c.cfg.Name))

	if err != nil {
		c.metrics.Counter(observability.MetricUpstreamFailures, 1, observability.T("upstream", c.cfg.Name))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%s: circuit open: %w", c.cfg.Name, shareddomain.ErrUpstreamUnavailable)
		}
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.cfg.Name, err)
	}
	return nil
}

func (c *ModelClient) do(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.cfg.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID := observability.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("model request failed", "error", err)
		return nil, fmt.Errorf("%s: %v: %w", c.cfg.Name, err, shareddomain.ErrUpstreamUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %v: %w", c.cfg.Name, err, shareddomain.ErrUpstreamUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("model returned error status", "status", resp.StatusCode)
		return nil, fmt.Errorf("%s: status %d: %w", c.cfg.Name, resp.StatusCode, shareddomain.ErrUpstreamUnavailable)
	}
	return raw, nil
}
