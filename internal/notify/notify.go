// Package notify posts discovery announcements to a Slack incoming webhook.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/theopenlane/httpsling"

	"github.com/poliscan/poliscan/internal/store"
)

// defaultRequestTimeout bounds a webhook post
const defaultRequestTimeout = 10 * time.Second

// Message is a Slack webhook payload
type Message struct {
	// Text is the notification fallback text
	Text string `json:"text"`
	// Blocks holds the rich layout blocks
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is a Slack Block Kit block
type Block struct {
	Type   string       `json:"type"`
	Text   *TextObject  `json:"text,omitempty"`
	Fields []TextObject `json:"fields,omitempty"`
}

// TextObject is a Slack text object
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Notifier sends discovery notifications. A nil Notifier is valid and
// silently does nothing, so callers don't branch on configuration.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

// Option configures the Notifier
type Option func(*Notifier)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		if client != nil {
			n.httpClient = client
		}
	}
}

// New creates a Notifier for the webhook URL. An empty URL returns nil,
// meaning notifications are disabled.
func New(webhookURL string, opts ...Option) *Notifier {
	if webhookURL == "" {
		return nil
	}

	n := &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// DiscoveryStored announces a newly persisted policy document. Failures are
// logged, not returned: notification is best-effort and must never fail the
// request that triggered it.
func (n *Notifier) DiscoveryStored(ctx context.Context, doc *store.Document) {
	if n == nil {
		return
	}

	if err := n.send(ctx, buildDiscoveryMessage(doc)); err != nil {
		log.Warn().Err(err).Str("domain", doc.Domain).Msg("slack notification failed")
	}
}

// send posts a message to the webhook
func (n *Notifier) send(ctx context.Context, msg Message) error {
	requester := httpsling.MustNew(
		httpsling.URL(n.webhookURL),
		httpsling.Post(),
		httpsling.JSON(false),
		httpsling.Body(msg),
		httpsling.WithDoer(n.httpClient),
	)

	resp, err := requester.SendWithContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}

// buildDiscoveryMessage formats a stored document as a Block Kit message
func buildDiscoveryMessage(doc *store.Document) Message {
	confirmation := "best effort"
	if doc.Confirmed {
		confirmation = "confirmed"
	}

	return Message{
		Text: fmt.Sprintf("New %s discovered for %s", doc.PolicyType.Label(), doc.Domain),
		Blocks: []Block{
			{
				Type: "header",
				Text: &TextObject{Type: "plain_text", Text: fmt.Sprintf("%s found: %s", doc.PolicyType.Label(), doc.Domain)},
			},
			{
				Type: "section",
				Fields: []TextObject{
					{Type: "mrkdwn", Text: fmt.Sprintf("*URL:*\n%s", doc.URL)},
					{Type: "mrkdwn", Text: fmt.Sprintf("*Method:*\n%s (%s)", doc.Method, confirmation)},
					{Type: "mrkdwn", Text: fmt.Sprintf("*Score:*\n%.0f", doc.Score)},
					{Type: "mrkdwn", Text: fmt.Sprintf("*Words:*\n%d", doc.WordCount)},
				},
			},
		},
	}
}
