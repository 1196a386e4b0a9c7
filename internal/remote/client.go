// Package remote implements the HTTP client for the donation service the
// sync engine reads from and deletes against.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"donationsync/internal/domain"
	"donationsync/internal/infra"
)

// ErrMissingBaseURL indicates the client was configured without an endpoint.
var ErrMissingBaseURL = errors.New("donations: base url is required")

// Options configures the donation service client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the remote donation service. It
// implements domain.DonationAPI.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type listResponse struct {
	Success   bool            `json:"success"`
	Donations json.RawMessage `json:"donations"`
}

type deleteResponse struct {
	Success bool `json:"success"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}, nil
}

// List fetches the user's donation records in server order. Any response
// without a success flag and a donations array is treated as a failure.
func (c *Client) List(ctx context.Context, userID string) ([]domain.DonationRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("donations: user id is required")
	}
	endpoint := fmt.Sprintf("%s/users/%s/donations", c.baseURL, url.PathEscape(userID))
	raw, err := c.do(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	var decoded listResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("donations: decode list response: %w", err)
	}
	if !decoded.Success {
		return nil, errors.New("donations: list reported failure")
	}
	if len(decoded.Donations) == 0 || string(decoded.Donations) == "null" {
		return nil, errors.New("donations: list response missing donations collection")
	}
	var records []domain.DonationRecord
	if err := json.Unmarshal(decoded.Donations, &records); err != nil {
		return nil, fmt.Errorf("donations: malformed donations collection: %w", err)
	}
	c.logger.Debug().Str("user_id", userID).Int("count", len(records)).Msg("donations: listed records")
	return records, nil
}

// Delete removes a single donation record by id. Non-success responses and
// transport errors are both reported as errors.
func (c *Client) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("donations: record id is required")
	}
	endpoint := fmt.Sprintf("%s/donations/%s", c.baseURL, url.PathEscape(id))
	raw, err := c.do(ctx, http.MethodDelete, endpoint)
	if err != nil {
		return err
	}
	var decoded deleteResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("donations: decode delete response: %w", err)
	}
	if !decoded.Success {
		return errors.New("donations: delete reported failure")
	}
	c.logger.Debug().Str("record_id", id).Msg("donations: deleted record")
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("donations: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("donations: http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("donations: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("donations: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
