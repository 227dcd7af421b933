package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dghubble/sling"

	"github.com/pfrederiksen/campus-events/internal/event"
)

const (
	// DefaultMaxRetries bounds retries of a failed post.
	DefaultMaxRetries = 3

	defaultTimeout = 10 * time.Second
)

// Payload is the JSON body posted to the webhook. Text is understood by
// Slack, Mattermost and similar incoming webhooks; Events carries the full
// records for custom receivers.
type Payload struct {
	Text   string         `json:"text"`
	Events []*event.Event `json:"events"`
}

// WebhookNotifier posts new events to an incoming webhook
type WebhookNotifier struct {
	url        string
	client     *http.Client
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(n *WebhookNotifier) {
		if c != nil {
			n.client = c
		}
	}
}

// WithMaxRetries sets how many times a failed post is retried.
func WithMaxRetries(retries uint64) WebhookOption {
	return func(n *WebhookNotifier) {
		n.maxRetries = retries
	}
}

// WithBackOff sets the retry schedule. It is called once per Notify.
func WithBackOff(newBackOff func() backoff.BackOff) WebhookOption {
	return func(n *WebhookNotifier) {
		if newBackOff != nil {
			n.newBackOff = newBackOff
		}
	}
}

// NewWebhookNotifier creates a notifier posting to url
func NewWebhookNotifier(url string, opts ...WebhookOption) (*WebhookNotifier, error) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return nil, fmt.Errorf("webhook URL must be http(s), got %q", url)
	}

	n := &WebhookNotifier{
		url:        url,
		client:     &http.Client{Timeout: defaultTimeout},
		maxRetries: DefaultMaxRetries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Notify posts all events in one message. Server errors and transport
// failures are retried; a 4xx response fails immediately.
func (n *WebhookNotifier) Notify(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]string, len(events))
	for i, evt := range events {
		messages[i] = formatMessage(evt)
	}
	payload := &Payload{
		Text:   strings.Join(messages, "\n\n"),
		Events: events,
	}

	req, err := sling.New().Post(n.url).BodyJSON(payload).Request()
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}

	post := func() error {
		// the body reader is consumed by each attempt
		attempt, err := rewind(req.WithContext(ctx))
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := n.client.Do(attempt)
		if err != nil {
			return err
		}
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("webhook returned %s", resp.Status)
		default:
			return backoff.Permanent(fmt.Errorf("webhook returned %s", resp.Status))
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(n.newBackOff(), n.maxRetries), ctx)
	if err := backoff.Retry(post, policy); err != nil {
		return fmt.Errorf("posting %d events to webhook: %w", len(events), err)
	}
	return nil
}

// rewind returns a copy of req with a fresh body.
func rewind(req *http.Request) (*http.Request, error) {
	if req.GetBody == nil {
		return req, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rewinding request body: %w", err)
	}
	clone := req.Clone(req.Context())
	clone.Body = body
	return clone, nil
}
