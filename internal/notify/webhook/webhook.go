// Package webhook posts new SOS alerts to a configured HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cantilanlgu/lifeline/internal/dispatch"
)

const httpTimeout = 10 * time.Second

// Notifier delivers alert notifications over HTTP.
type Notifier struct {
	url    string
	client *http.Client
}

// New creates a webhook notifier. If url is empty, Notify is a no-op.
func New(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: httpTimeout},
	}
}

type payload struct {
	Event     string    `json:"event"`
	AlertID   int64     `json:"alert_id"`
	UserName  string    `json:"user_name"`
	Category  string    `json:"category"`
	Note      string    `json:"note,omitempty"`
	Address   string    `json:"address"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Notify posts the alert to the configured webhook. If no URL is
// configured, it returns nil immediately.
func (n *Notifier) Notify(ctx context.Context, a *dispatch.Alert) error {
	if n.url == "" {
		return nil
	}

	p := payload{
		Event:     "sos.created",
		AlertID:   a.ID,
		UserName:  a.UserName,
		Category:  string(a.Category),
		Note:      a.Note,
		Address:   a.Address,
		CreatedAt: a.CreatedAt,
	}
	if a.Location != nil {
		p.Latitude = &a.Location.Lat
		p.Longitude = &a.Location.Lon
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("webhook: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook: endpoint returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
