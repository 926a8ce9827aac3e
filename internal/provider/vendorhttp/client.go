// Package vendorhttp holds the HTTP plumbing shared by the hand-rolled vendor
// adapters: a streaming-safe client and a JSON POST that maps failures onto
// the domain error taxonomy.
package vendorhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davidbz/glimpse/internal/domain"
)

const (
	// DefaultTimeout applies when a vendor config leaves its timeout unset.
	DefaultTimeout = 60 * time.Second

	maxErrorBody    = 64 << 10
	maxResponseBody = 8 << 20
)

// NewClient returns a client whose timeout bounds the wait for response
// headers only, so a long but healthy stream is never cut.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout

	return &http.Client{Transport: transport}
}

// Request describes one JSON POST to a vendor.
type Request struct {
	Vendor  domain.VendorID
	URL     string
	Headers map[string]string
	Body    any
}

// PostJSON sends req and returns the open response when the status is 2xx.
// Transport failures become NetworkError and other statuses become ApiError
// carrying the vendor body. The caller closes the returned body.
func PostJSON(ctx context.Context, client *http.Client, req Request) (*http.Response, error) {
	payload, err := json.Marshal(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, domain.NewNetworkError(req.Vendor, RedactURL(err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, domain.NewAPIError(req.Vendor, resp.StatusCode, string(body))
	}

	return resp, nil
}

// PostJSONBody sends req and reads the whole 2xx response body.
func PostJSONBody(ctx context.Context, client *http.Client, req Request) ([]byte, error) {
	resp, err := PostJSON(ctx, client, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, domain.NewNetworkError(req.Vendor, err)
	}
	return body, nil
}

// RedactURL drops the query string from the URL a transport error reports.
// Gemini takes its API key as a query parameter.
func RedactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL, _, _ = strings.Cut(urlErr.URL, "?")
	}
	return err
}
