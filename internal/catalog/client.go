package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"menuboard/internal"
	"menuboard/internal/config"
)

// Client is a read-only GET client for the menu backend.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
	logger     *zap.Logger
	retryBase  time.Duration
}

// FetchError describes a failed menu fetch and carries the underlying cause.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch menu %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch menu %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.MenuAPITimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.MenuRateLimitRPS),
		logger:     logger,
		retryBase:  250 * time.Millisecond,
	}
}

// FetchRawMenuItems retrieves every raw record from the menu endpoint.
func (c *Client) FetchRawMenuItems(ctx context.Context) ([]internal.RawMenuItem, error) {
	endpoint, err := c.endpointURL()
	if err != nil {
		return nil, &FetchError{URL: c.cfg.MenuAPIBaseURL, Err: err}
	}

	body, status, err := c.fetchJSON(ctx, endpoint)
	if err != nil {
		return nil, &FetchError{URL: endpoint, StatusCode: status, Err: err}
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, &FetchError{URL: endpoint, StatusCode: status, Err: err}
	}

	out := make([]internal.RawMenuItem, 0, len(records))
	for _, raw := range records {
		out = append(out, toRawMenuItem(raw))
	}
	c.logger.Debug("menu records fetched", zap.String("url", endpoint), zap.Int("count", len(out)))
	return out, nil
}

func (c *Client) endpointURL() (string, error) {
	base := strings.TrimRight(c.cfg.MenuAPIBaseURL, "/")
	path := "/" + strings.TrimLeft(c.cfg.MenuAPIEndpoint, "/")
	u, err := url.Parse(base + path)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid menu api url %q", base+path)
	}
	return u.String(), nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string) ([]byte, int, error) {
	attempts := c.cfg.MenuAPIMaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	lastStatus := 0
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, lastStatus, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, 0, err
		}
		req.Header.Set("Accept", "application/json")
		if token := strings.TrimSpace(c.cfg.MenuAPIToken); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, 0, err
			}
			c.logger.Warn("menu request failed", zap.Int("attempt", attempt), zap.Error(err))
			if attempt < attempts {
				if err := c.backoff(ctx, attempt); err != nil {
					return nil, lastStatus, err
				}
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		lastStatus = resp.StatusCode
		if readErr != nil {
			lastErr = readErr
			if attempt < attempts {
				if err := c.backoff(ctx, attempt); err != nil {
					return nil, lastStatus, err
				}
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("unexpected response: %s", truncate(string(body), 200))
			if isRetryableStatus(resp.StatusCode) && attempt < attempts {
				c.logger.Warn("menu request retrying", zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt))
				if err := c.backoff(ctx, attempt); err != nil {
					return nil, lastStatus, err
				}
				continue
			}
			return nil, lastStatus, lastErr
		}

		return body, lastStatus, nil
	}

	if lastErr == nil {
		lastErr = errors.New("menu request failed")
	}
	return nil, lastStatus, lastErr
}

// backoff waits 250ms doubled per attempt plus jitter, or until ctx is done.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	wait := c.retryBase*time.Duration(1<<(attempt-1)) + time.Duration(rand.Intn(100))*time.Millisecond
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// decodeRecords accepts a bare JSON array or a {"success","data"} envelope.
func decodeRecords(body []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		if env.Success != nil && !*env.Success {
			return nil, fmt.Errorf("menu api unsuccessful: %s", env.Message)
		}
		trimmed = bytes.TrimSpace(env.Data)
	}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}
	return records, nil
}

func toRawMenuItem(raw map[string]any) internal.RawMenuItem {
	row, _ := toInt(raw["_rowNumber"])
	return internal.RawMenuItem{
		ID:          toString(raw["id"]),
		Category:    toString(raw["categoria"]),
		Product:     toString(raw["producto"]),
		Price:       toString(raw["precio"]),
		Description: toString(raw["descripcion"]),
		Image:       toString(raw["img"]),
		Stock:       toString(raw["stock"]),
		RowNumber:   row,
	}
}

// toString renders scalar JSON values as text; anything else is empty.
func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		return int(t), true
	case json.Number:
		i, err := t.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		return i, err == nil
	default:
		return 0, false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
