package infrastructure

import (
	"testing"

	"github.com/chromedp/chromedp/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector(t *testing.T) {
	sel, err := selector("e12")
	require.NoError(t, err)
	assert.Equal(t, `[data-agent-ref="e12"]`, sel)

	for _, bad := range []string{"", "12", `e1"]`, "e1 , body"} {
		_, err := selector(bad)
		assert.Error(t, err, bad)
	}
}

func TestKeyNames(t *testing.T) {
	assert.Equal(t, kb.Enter, keyNames["enter"])
	assert.Equal(t, kb.Tab, keyNames["tab"])
}

func TestNewChromedpBrowserDefaults(t *testing.T) {
	b := NewChromedpBrowser("", "/usr/bin/chromium")
	assert.Equal(t, "/usr/bin/chromium", b.ChromePath)
	assert.Positive(t, b.SessionTimeout)
}
