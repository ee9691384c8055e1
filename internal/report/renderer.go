package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/config"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/logger"

	"github.com/rs/zerolog"
)

// Renderer turns report data into the paginated PDF artifact.
type Renderer interface {
	Render(ctx context.Context, data Data) ([]byte, error)
}

// HTTPRenderer calls the external rendering service: POST the data contract,
// receive the finished PDF. The service owns layout, charts and pagination;
// this side only enforces the timeout.
type HTTPRenderer struct {
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

func NewHTTPRenderer(cfg *config.Config) *HTTPRenderer {
	timeout := cfg.Renderer.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPRenderer{
		endpoint: cfg.Renderer.Endpoint,
		client:   &http.Client{Timeout: timeout},
		log:      logger.Get(),
	}
}

func (r *HTTPRenderer) Render(ctx context.Context, data Data) ([]byte, error) {
	if r.endpoint == "" {
		return nil, fmt.Errorf("renderer endpoint not configured")
	}

	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	r.log.Debug().Int64("upload_id", data.UploadID).Msg("Requesting report render")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("renderer returned HTTP %d", resp.StatusCode)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered artifact: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("renderer returned an empty artifact")
	}

	return pdf, nil
}
