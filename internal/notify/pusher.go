package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
)

// Pusher is the external push side channel. It is best-effort; the stored
// notification is the record of truth.
type Pusher interface {
	Push(ctx context.Context, n *entity.Notification) error
}

type LogPusher struct {
	log *zap.Logger
}

func NewLogPusher(log *zap.Logger) *LogPusher {
	return &LogPusher{log: log.With(zap.String("component", "pusher"))}
}

func (p *LogPusher) Push(ctx context.Context, n *entity.Notification) error {
	p.log.Info("Push notification",
		zap.String("recipient", utils.MaskID(n.RecipientUserID)),
		zap.String("type", string(n.Type)),
		zap.String("title", n.Title),
	)
	return nil
}

type WebhookPusher struct {
	url    string
	client *http.Client
}

func NewWebhookPusher(url string, timeout time.Duration) *WebhookPusher {
	return &WebhookPusher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	NotificationID  string  `json:"notification_id"`
	RecipientUserID string  `json:"recipient_user_id"`
	Type            string  `json:"type"`
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	RelatedSlotID   *string `json:"related_slot_id"`
}

func (p *WebhookPusher) Push(ctx context.Context, n *entity.Notification) error {
	body, err := json.Marshal(webhookPayload{
		NotificationID:  n.NotificationID,
		RecipientUserID: n.RecipientUserID,
		Type:            string(n.Type),
		Title:           n.Title,
		Content:         n.Content,
		RelatedSlotID:   n.RelatedSlotID,
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("push notification %s: %w", n.NotificationID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push notification %s: webhook returned %d", n.NotificationID, resp.StatusCode)
	}
	return nil
}
