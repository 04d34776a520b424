package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/notifyhub/assignment-queue/internal/domain"
)

// WebhookRequest is the JSON body posted for each consumed assignment.
type WebhookRequest struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Priority    string    `json:"priority"`
}

// Webhook posts each consumed assignment to an external URL.
// The URL is injected from config so tests can point to a local server.
type Webhook struct {
	url        string
	httpClient *http.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Process posts the assignment and expects any 2xx response.
func (w *Webhook) Process(ctx context.Context, a domain.Assignment) error {
	body, err := json.Marshal(WebhookRequest{
		ID:          a.ID().String(),
		Description: a.Description(),
		DueDate:     a.DueDate(),
		Priority:    a.Priority().String(),
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected webhook status: %d", resp.StatusCode)
	}
	return nil
}

// compile-time check that Webhook implements Processor
var _ Processor = (*Webhook)(nil)
