package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-api/pkg/ai/formatters"
)

const DefaultBaseURL = "http://ai-service:8000"

// Client calls the internal ai-service chat endpoint.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Agent   string
	backoff time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Agent:   "auto",
		backoff: time.Second,
	}
}

// Formatter interface for the specialized formatters
type Formatter interface {
	Format(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error)
}

func (c *Client) NewResumeFormatter() Formatter {
	return formatters.NewResumeFormatter(c)
}

func (c *Client) NewActionFormatter() Formatter {
	return formatters.NewActionFormatter(c)
}

// ExtractResume structures raw resume text into a resume document.
func (c *Client) ExtractResume(ctx context.Context, text string) (map[string]interface{}, error) {
	return c.NewResumeFormatter().Format(ctx, map[string]interface{}{"text": text})
}

type chatRequest struct {
	Agent string `json:"agent"`
	Input string `json:"input"`
}

type chatResponse struct {
	Agent  string `json:"agent"`
	Output string `json:"output"`
}

// Chat posts input to /v1/chat and returns the agent output.
func (c *Client) Chat(ctx context.Context, input string) (string, error) {
	body, err := json.Marshal(chatRequest{Agent: c.Agent, Input: input})
	if err != nil {
		return "", err
	}
	resp, err := c.doPostWithRetry(ctx, "/v1/chat", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai-service returned non-200 status: %d", resp.StatusCode)
	}
	var out chatResponse
	if err := json.Unmarshal(rb, &out); err != nil {
		return "", fmt.Errorf("decode ai-service response: %w", err)
	}
	return out.Output, nil
}

// doPostWithRetry performs an HTTP POST to the given path with retry/backoff.
func (c *Client) doPostWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
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
		// exponential backoff before retrying
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
