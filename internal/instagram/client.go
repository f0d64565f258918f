// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

// Package instagram fetches recent media and engagement counts from the
// Instagram Graph API so the dashboard can show posts side by side with
// the attribution rows they generated.
package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/MateusDN896/RastroO/internal/config"
	"github.com/MateusDN896/RastroO/internal/logging"
	"github.com/MateusDN896/RastroO/internal/metrics"
)

// mediaFields is the field set requested for every media item.
const mediaFields = "id,caption,media_type,media_url,permalink,timestamp,like_count,comments_count"

// maxErrorBodySize limits how much of an error response body is read
// for diagnostics, preventing unbounded allocation on large responses.
const maxErrorBodySize = 64 * 1024

// CredentialsSource resolves the access token used for outbound Graph
// API calls. Tokens can rotate at runtime, so the client asks on every
// request instead of capturing one at construction.
type CredentialsSource interface {
	AccessToken() (string, error)
}

// StaticCredentials serves a fixed token, the common case when the
// token is provisioned through configuration.
type StaticCredentials string

func (s StaticCredentials) AccessToken() (string, error) {
	return string(s), nil
}

// Client talks to the Instagram Graph API for a single account.
// A token-bucket limiter keeps request volume under the configured
// per-minute budget so the Graph API never returns HTTP 429 for us.
//
// All methods are safe for concurrent use.
type Client struct {
	baseURL     string
	credentials CredentialsSource
	userID      string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// NewClient builds a Graph API client from configuration, serving the
// configured token through a StaticCredentials source.
func NewClient(cfg *config.InstagramConfig) *Client {
	return NewClientWithCredentials(cfg, StaticCredentials(cfg.AccessToken))
}

// NewClientWithCredentials builds a Graph API client with an external
// credentials source.
func NewClientWithCredentials(cfg *config.InstagramConfig, creds CredentialsSource) *Client {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		credentials: creds,
		userID:      cfg.UserID,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
	}
}

// RecentMedia returns up to limit most recent posts for the configured
// account, including like and comment counts.
func (c *Client) RecentMedia(ctx context.Context, limit int) ([]MediaItem, error) {
	if limit <= 0 {
		limit = 25
	}

	endpoint := fmt.Sprintf("%s/%s/media", c.baseURL, url.PathEscape(c.userID))
	params := url.Values{}
	params.Set("fields", mediaFields)
	params.Set("limit", strconv.Itoa(limit))

	var out mediaListResponse
	if err := c.doGet(ctx, "recent_media", endpoint, params, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Media returns a single post by id with engagement counts.
func (c *Client) Media(ctx context.Context, mediaID string) (*MediaItem, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(mediaID))
	params := url.Values{}
	params.Set("fields", mediaFields)

	var out MediaItem
	if err := c.doGet(ctx, "media", endpoint, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doGet performs a rate-limited GET with freshly resolved credentials
// and decodes the JSON response into dst.
func (c *Client) doGet(ctx context.Context, operation, endpoint string, params url.Values, dst interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("instagram: rate limiter wait: %w", err)
	}

	token, err := c.credentials.AccessToken()
	if err != nil {
		return fmt.Errorf("instagram: resolve credentials: %w", err)
	}
	params.Set("access_token", token)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("instagram: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordInstagramRequest(operation, "error", time.Since(start))
		return fmt.Errorf("instagram: %s request: %w", operation, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close Instagram response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordInstagramRequest(operation, "error", time.Since(start))
		return fmt.Errorf("instagram: %s returned HTTP %d: %s",
			operation, resp.StatusCode, graphErrorMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		metrics.RecordInstagramRequest(operation, "error", time.Since(start))
		return fmt.Errorf("instagram: decode %s response: %w", operation, err)
	}

	metrics.RecordInstagramRequest(operation, "success", time.Since(start))
	return nil
}

// graphErrorMessage extracts the Graph API error message from an error
// response body, falling back to the raw body when it is not the
// standard error envelope.
func graphErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}

	var ge apiError
	if err := json.Unmarshal(body, &ge); err == nil && ge.Error.Message != "" {
		return fmt.Sprintf("%s (code %d)", ge.Error.Message, ge.Error.Code)
	}
	return string(body)
}
