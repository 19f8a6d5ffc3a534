// Package submit sends accepted policy batches to the system of record over
// HTTP. It implements core.Submitter.
//
// A batch is POSTed as a JSON array of policy records:
//
//	[{"policyNumber":"123456789","isValid":true}, ...]
//
// Any 2xx response must carry the identifier the endpoint assigned:
//
//	{"id": 1042}
//
// Every other response, and every transport error, is a failure. The client
// makes exactly one attempt per call.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/policycheck/internal/core"
	"github.com/JonMunkholm/policycheck/internal/logging"
)

// DefaultTimeout bounds one HTTP exchange when Options.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// maxErrorBody is how much of a failed response body is kept for the log.
const maxErrorBody = 512

// ErrEmptyBatch is returned when Submit is called with no records.
var ErrEmptyBatch = errors.New("submission failed: empty batch")

// Options configures a Client.
type Options struct {
	URL     string        // endpoint receiving the batch
	Token   string        // optional bearer token
	Timeout time.Duration // per-request timeout
}

// Client posts batches to a fixed endpoint.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

var _ core.Submitter = (*Client)(nil)

// NewClient returns a Client for opts.URL.
func NewClient(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, errors.New("submit: endpoint URL is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		url:   opts.URL,
		token: opts.Token,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}, nil
}

type submitResponse struct {
	ID json.Number `json:"id"`
}

// Submit posts batch and returns the id from the response.
func (c *Client) Submit(ctx context.Context, batch []core.PolicyRecord) (int64, error) {
	if len(batch) == 0 {
		return 0, ErrEmptyBatch
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return 0, fmt.Errorf("submission failed: marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("submission failed: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := logging.FromContext(ctx)
	log.Debug("sending policy batch", "batch_size", len(batch), "url", c.url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("submission failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("submission rejected by endpoint",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)),
		)
		return 0, fmt.Errorf("submission failed: HTTP %d", resp.StatusCode)
	}

	var out submitResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return 0, fmt.Errorf("submission failed: decode response: %w", err)
	}
	if out.ID == "" {
		return 0, errors.New("submission failed: response has no id")
	}
	id, err := out.ID.Int64()
	if err != nil {
		return 0, fmt.Errorf("submission failed: id %q is not an integer: %w", out.ID, err)
	}

	log.Debug("policy batch accepted", "resource_id", id)
	return id, nil
}
