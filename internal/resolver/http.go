package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/davidbz/glimpse/internal/provider/vendorhttp"
)

const (
	defaultDiscoveryTimeout = 15 * time.Second
	maxDiscoveryBody        = 4 << 20
)

// DiscoveryConfig points a strategy at a vendor endpoint.
type DiscoveryConfig struct {
	BaseURL    string
	HTTPClient *http.Client
}

func (c DiscoveryConfig) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultDiscoveryTimeout}
}

func fetch(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", vendorhttp.RedactURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDiscoveryBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read model list: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("model list returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
