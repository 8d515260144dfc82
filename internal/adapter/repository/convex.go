package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ConvexClient queries a Convex deployment over its HTTP API.
type ConvexClient struct {
	BaseURL string
	HTTP    *http.Client
	breaker *gobreaker.CircuitBreaker[any]
	backoff time.Duration
}

type convexQuery struct {
	Path   string         `json:"path"`
	Args   map[string]any `json:"args"`
	Format string         `json:"format"`
}

type convexResult struct {
	Status       string          `json:"status"`
	Value        json.RawMessage `json:"value"`
	ErrorMessage string          `json:"errorMessage"`
}

func NewConvexClient(baseURL string, timeout time.Duration, logger *slog.Logger) *ConvexClient {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        "datastore",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 8 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &ConvexClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		backoff: time.Second,
	}
}

// Query calls a query function with empty arguments.
func (c *ConvexClient) Query(ctx context.Context, function string) (any, error) {
	return c.breaker.Execute(func() (any, error) {
		return c.query(ctx, function)
	})
}

func (c *ConvexClient) query(ctx context.Context, function string) (any, error) {
	body, err := json.Marshal(convexQuery{Path: function, Args: map[string]any{}, Format: "json"})
	if err != nil {
		return nil, err
	}
	resp, err := c.doPostWithRetry(ctx, "/api/query", body)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", function, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("query %s: read body: %w", function, err)
	}
	var res convexResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("query %s: status %d: %w", function, resp.StatusCode, err)
	}
	if res.Status != "success" {
		msg := res.ErrorMessage
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %q (http %d)", res.Status, resp.StatusCode)
		}
		return nil, fmt.Errorf("query %s: %s", function, msg)
	}

	var out any
	if len(res.Value) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(res.Value, &out); err != nil {
		return nil, fmt.Errorf("query %s: decode value: %w", function, err)
	}
	return out, nil
}

// doPostWithRetry performs an HTTP POST to the given path with retry/backoff.
// Only transport errors are retried.
func (c *ConvexClient) doPostWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
	attempts := 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if i < attempts-1 {
			backoff := c.backoff * time.Duration(1<<i)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}
