package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-api/pkg/ai/formatters"
)

func chatServer(t *testing.T, output string, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat", r.URL.Path)
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		_ = json.NewEncoder(w).Encode(chatResponse{Agent: "auto", Output: output})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractResume(t *testing.T) {
	var seen chatRequest
	srv := chatServer(t, "Here you go:\n```json\n{\"header\": {\"name\": \"Jane\"}}\n```", &seen)
	c := NewClient(srv.URL, time.Second)

	out, err := c.ExtractResume(context.Background(), "Jane Doe\nEngineer at Acme")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "Jane"}, out["header"])
	assert.Equal(t, "auto", seen.Agent)
	assert.True(t, strings.Contains(seen.Input, "Engineer at Acme"))
}

func TestChatNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Chat(context.Background(), "hi")
	assert.Error(t, err)
}

func TestActionFormatter(t *testing.T) {
	srv := chatServer(t, `{"action":"click","ref":"e3"}`, nil)
	c := NewClient(srv.URL, time.Second)

	out, err := c.NewActionFormatter().Format(context.Background(), map[string]interface{}{"task": "log in"})
	require.NoError(t, err)
	assert.Equal(t, "click", out["action"])
}

func TestDecodeObject(t *testing.T) {
	_, err := formatters.DecodeObject("no json here")
	assert.Error(t, err)

	_, err = formatters.DecodeObject("[1,2]")
	assert.Error(t, err)

	out, err := formatters.DecodeObject(`{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, out["a"])
}
