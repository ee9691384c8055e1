package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/logger"

	"github.com/rs/zerolog"
)

// Dispatcher delivers events to the external automation endpoints. Delivery is
// strictly best-effort: a single bounded attempt, no retries. Callers log the
// returned error and carry on; a failed notification never fails the primary
// operation.
type Dispatcher struct {
	client *http.Client
	log    zerolog.Logger
}

func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{
		client: &http.Client{Timeout: timeout},
		log:    logger.Get(),
	}
}

// Send posts the payload as JSON. An empty endpoint means the hook is
// intentionally disabled and counts as success.
func (d *Dispatcher) Send(ctx context.Context, endpoint string, payload interface{}) error {
	if endpoint == "" {
		d.log.Debug().Msg("Webhook endpoint not configured, skipping notification")
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}

	d.log.Debug().Str("endpoint", endpoint).Msg("Webhook delivered")
	return nil
}
