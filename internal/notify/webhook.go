package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sponsorlink/backend/internal/events"
	"go.uber.org/zap"
)

const secretHeader = "X-Webhook-Secret"

// Webhook posts events as JSON to a single URL.
type Webhook struct {
	url    string
	secret string
	client *http.Client
	log    *zap.Logger
}

func NewWebhook(url, secret string, timeoutMS int, log *zap.Logger) *Webhook {
	return &Webhook{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: time.Duration(timeoutMS) * time.Millisecond},
		log:    log,
	}
}

// Forward delivers one event. Any non-2xx answer is an error.
func (w *Webhook) Forward(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		req.Header.Set(secretHeader, w.secret)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s event: %w", event.Type, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %d for %s event", resp.StatusCode, event.Type)
	}
	return nil
}

// Handler adapts Forward to a subscriber callback. Failed deliveries are logged and dropped.
func (w *Webhook) Handler(ctx context.Context) func(events.Event) {
	return func(event events.Event) {
		if err := w.Forward(ctx, event); err != nil {
			w.log.Warn("failed to forward notification", zap.String("type", event.Type), zap.Error(err))
			return
		}
		w.log.Info("notification forwarded", zap.String("type", event.Type), zap.Int64s("user_ids", event.UserIDs))
	}
}
