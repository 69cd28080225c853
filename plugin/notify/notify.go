// Package notify delivers transactional email through the Resend API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
)

const resendSendURL = "https://api.resend.com/emails"

// Kind selects the email template.
type Kind string

const (
	KindWelcome        Kind = "welcome"
	KindMatch          Kind = "match"
	KindRecommendation Kind = "recommendation"
)

// Mailer sends templated notification emails.
type Mailer struct {
	apiKey string
	from   string
	client *http.Client
}

// NewMailer creates a Resend-backed mailer.
func NewMailer(apiKey, from string) *Mailer {
	return &Mailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// IsConfigured reports whether live sending is possible.
func (m *Mailer) IsConfigured() bool {
	return m.apiKey != ""
}

// SendWelcome sends the signup greeting.
func (m *Mailer) SendWelcome(ctx context.Context, to string) error {
	body := `# Welcome to Cortex!

Thank you for joining our cultural discovery platform.

Get ready to discover music, movies, books, and more that match your taste.
Start by connecting your Spotify account and building your taste profile.`
	return m.send(ctx, to, "Welcome to Cortex", body)
}

// SendMatch announces a new taste twin. similarity is rendered as a percentage.
func (m *Mailer) SendMatch(ctx context.Context, to string, similarity float64) error {
	body := fmt.Sprintf(`# You have a new Taste Twin!

Someone with similar cultural preferences has been matched with you.

**Similarity score:** %.0f%%

Log in to Cortex to view your match and start sharing recommendations.`, similarity*100)
	return m.send(ctx, to, "You have a new Taste Twin!", body)
}

// SendRecommendations announces a fresh batch of recommendations.
func (m *Mailer) SendRecommendations(ctx context.Context, to string, titles []string) error {
	var sb strings.Builder
	sb.WriteString("# New recommendations for you!\n\nWe found some cultural discoveries based on your preferences:\n\n")
	for _, title := range titles {
		sb.WriteString("- **" + title + "**\n")
	}
	sb.WriteString("\nLog in to Cortex to explore them in detail.")
	return m.send(ctx, to, "New recommendations for you", sb.String())
}

func (m *Mailer) send(ctx context.Context, to, subject, markdown string) error {
	if !m.IsConfigured() {
		return errors.New("resend api key not configured")
	}

	html, err := renderHTML(markdown)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"from":    m.from,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal email payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendSendURL, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to build resend request")
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "resend request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Errorf("resend api error: %d - %s", resp.StatusCode, string(detail))
	}
	return nil
}

// renderHTML converts the markdown body and wraps it in the shared shell.
func renderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render email body")
	}

	return `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #ec4899; margin: 0;">Cortex</h1>
    <p style="color: #666; margin: 5px 0;">Your Cultural Companion</p>
  </div>
  <div style="background: #f9fafb; padding: 30px; border-radius: 12px;">
` + buf.String() + `  </div>
  <div style="text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb;">
    <p style="color: #666; font-size: 14px;">This email was sent from Cortex. You can update your notification preferences in your account settings.</p>
  </div>
</div>`, nil
}
