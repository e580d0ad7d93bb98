package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pefman/w40k-wounds/internal/engine"
	"github.com/pefman/w40k-wounds/internal/models"
	"github.com/pefman/w40k-wounds/internal/stats"
)

var httpClient = &http.Client{Timeout: 8 * time.Second}

// Config holds API configuration
type Config struct {
	BaseURL string
}

// Client talks to a running calculator service.
type Client struct {
	config Config
	http   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		config: Config{BaseURL: baseURL},
		http:   httpClient,
	}
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Status)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &StatusError{Status: resp.StatusCode, Message: body.Message}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) apiGet(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) apiPost(ctx context.Context, path string, in, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// ExpectedWounds asks the server to evaluate a profile.
func (c *Client) ExpectedWounds(ctx context.Context, p engine.AttackProfile, m engine.ModifierSet) (models.CalcResponse, error) {
	prof := models.ProfileFrom(p)
	req := models.CalcRequest{Profile: &prof, Modifiers: models.ModifiersFrom(m)}
	var out models.CalcResponse
	if err := c.apiPost(ctx, "/api/expected-wounds", req, &out); err != nil {
		return models.CalcResponse{}, fmt.Errorf("expected wounds: %w", err)
	}
	return out, nil
}

// Today fetches the server's daily aggregate.
func (c *Client) Today(ctx context.Context) (stats.Daily, error) {
	var out stats.Daily
	if err := c.apiGet(ctx, "/api/stats/today", &out); err != nil {
		return stats.Daily{}, fmt.Errorf("stats today: %w", err)
	}
	return out, nil
}

// Healthy reports whether /api/healthz answers ok.
func (c *Client) Healthy(ctx context.Context) error {
	var out map[string]string
	if err := c.apiGet(ctx, "/api/healthz", &out); err != nil {
		return err
	}
	if out["status"] != "ok" {
		return fmt.Errorf("unhealthy: %q", out["status"])
	}
	return nil
}
