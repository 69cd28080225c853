package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	html, err := renderHTML("# Hello\n\nSome **bold** text.")
	require.NoError(t, err)
	require.Contains(t, html, "<h1>Hello</h1>")
	require.Contains(t, html, "<strong>bold</strong>")
	require.Contains(t, html, "Cortex")
}

func TestSendRequiresKey(t *testing.T) {
	m := NewMailer("", "Cortex <notifications@cortex.app>")
	require.False(t, m.IsConfigured())
	err := m.SendMatch(context.Background(), "user@example.com", 0.83)
	require.ErrorContains(t, err, "not configured")
}
