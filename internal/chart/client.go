package chart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://quickchart.io/chart"
	defaultTimeout = 10 * time.Second
	defaultWidth   = 500
	defaultHeight  = 300
	maxResponse    = 1 << 20
)

// ErrRenderFailed covers every way the rendering service can fail: transport
// errors, timeouts, non-2xx replies and replies without a usable URL.
var ErrRenderFailed = errors.New("could not generate chart")

// Renderer turns a chart configuration into a URL of a rendered image.
type Renderer interface {
	Render(ctx context.Context, cfg Config) (string, error)
}

// Client talks to a QuickChart-compatible /create endpoint. It never retries.
type Client struct {
	baseURL         string
	width           int
	height          int
	background      string
	format          string
	devicePixelRate float64
	client          *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithTimeout bounds the whole outbound call. Non-positive durations keep
// the default so a call can never block indefinitely.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

func WithSize(width, height int) ClientOption {
	return func(c *Client) {
		if width > 0 {
			c.width = width
		}
		if height > 0 {
			c.height = height
		}
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:         defaultBaseURL,
		width:           defaultWidth,
		height:          defaultHeight,
		background:      "transparent",
		format:          "png",
		devicePixelRate: 1.0,
		client:          &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createRequest struct {
	Chart            string  `json:"chart"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Background       string  `json:"bkg"`
	Format           string  `json:"format"`
	DevicePixelRatio float64 `json:"devicePixelRatio"`
}

type createResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// Render submits cfg and returns the short URL of the rendered image.
func (c *Client) Render(ctx context.Context, cfg Config) (string, error) {
	chartJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode chart: %v", ErrRenderFailed, err)
	}

	body, err := json.Marshal(createRequest{
		Chart:            string(chartJSON),
		Width:            c.width,
		Height:           c.height,
		Background:       c.background,
		Format:           c.format,
		DevicePixelRatio: c.devicePixelRate,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", ErrRenderFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/create", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrRenderFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", ErrRenderFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrRenderFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: chart service returned %d: %s", ErrRenderFailed, resp.StatusCode, string(respBody))
	}

	var created createResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrRenderFailed, err)
	}
	if created.URL == "" {
		return "", fmt.Errorf("%w: response carried no url", ErrRenderFailed)
	}

	return created.URL, nil
}
