package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"orb-scanner/internal/interfaces"
)

// NtfyNotifier posts alerts to an ntfy topic. Delivery is best effort: the
// caller logs failures and moves on.
type NtfyNotifier struct {
	server string
	topic  string
	client *http.Client
}

var _ interfaces.Notifier = (*NtfyNotifier)(nil)

func NewNtfy(server, topic string) *NtfyNotifier {
	return &NtfyNotifier{
		server: strings.TrimRight(server, "/"),
		topic:  topic,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (n *NtfyNotifier) Send(ctx context.Context, title, message string) error {
	body := strings.NewReader(title + "\n" + message)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.server+"/"+n.topic, body)
	if err != nil {
		return fmt.Errorf("create ntfy request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to ntfy: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy responded with status %d", resp.StatusCode)
	}
	return nil
}
