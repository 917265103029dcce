package words

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/partygames/internal/model"
)

// Config holds word supplier connection settings
type Config struct {
	// BaseURL is the supplier API root, including the /api suffix
	BaseURL string
	// Timeout bounds every supplier request
	Timeout time.Duration
	// HealthTimeout bounds the health probe (never longer than Timeout)
	HealthTimeout time.Duration
}

// DefaultConfig returns the supplier settings used in development
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:5400/api",
		Timeout:       10 * time.Second,
		HealthTimeout: 8 * time.Second,
	}
}

// TokenSource returns the bearer token to send, or "" for none
type TokenSource func(ctx context.Context) string

// ErrUnexpectedStatus is returned for non-2xx supplier responses
var ErrUnexpectedStatus = errors.New("unexpected status from word supplier")

// Client talks to the remote word supplier
type Client struct {
	baseURL       string
	healthTimeout time.Duration
	httpClient    *http.Client
	tokens        TokenSource
}

// NewClient creates a supplier client. tokens may be nil.
func NewClient(cfg Config, tokens TokenSource) *Client {
	healthTimeout := cfg.HealthTimeout
	if healthTimeout <= 0 || healthTimeout > cfg.Timeout {
		healthTimeout = cfg.Timeout
	}
	return &Client{
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		healthTimeout: healthTimeout,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		tokens: tokens,
	}
}

// CharadesQuery filters the charades word list
type CharadesQuery struct {
	Limit      int
	Locale     string
	Category   string
	Difficulty string
}

type wordPairsResponse struct {
	Message string           `json:"message"`
	Data    []model.WordPair `json:"data"`
}

type charadesWordsResponse struct {
	Data  []json.RawMessage `json:"data"`
	Words []string          `json:"words"`
}

type charadesWordItem struct {
	ID         string `json:"id"`
	Word       string `json:"word"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// FetchWordPairs returns up to limit imposter pairs for a locale.
// A 404 from the supplier yields an empty list, not an error.
func (c *Client) FetchWordPairs(ctx context.Context, limit int, locale string) ([]model.WordPair, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("locale", locale)

	var resp wordPairsResponse
	found, err := c.get(ctx, "/games/words/pairs", q, &resp)
	if err != nil || !found {
		return nil, err
	}

	pairs := make([]model.WordPair, 0, len(resp.Data))
	for _, p := range resp.Data {
		if p.Normal != "" && p.Imposter != "" {
			pairs = append(pairs, p)
		}
	}
	return pairs, nil
}

// ReportUsage posts pair ratings. An empty batch sends nothing.
func (c *Client) ReportUsage(ctx context.Context, usages []model.WordUsage) error {
	if len(usages) == 0 {
		return nil
	}
	body := struct {
		Usages []model.WordUsage `json:"usages"`
	}{Usages: usages}
	return c.post(ctx, "/games/words/pairs/usage", body)
}

// FetchCharadesWords returns single words. Items may be plain strings or
// objects carrying a "word" field; the legacy "words" field is also accepted.
func (c *Client) FetchCharadesWords(ctx context.Context, query CharadesQuery) ([]string, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(query.Limit))
	q.Set("locale", query.Locale)
	if query.Category != "" {
		q.Set("category", query.Category)
	}
	if query.Difficulty != "" {
		q.Set("difficulty", query.Difficulty)
	}

	var resp charadesWordsResponse
	found, err := c.get(ctx, "/games/charades/words", q, &resp)
	if err != nil || !found {
		return nil, err
	}

	if resp.Data == nil {
		return nonEmpty(resp.Words), nil
	}

	words := make([]string, 0, len(resp.Data))
	for _, raw := range resp.Data {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			words = append(words, s)
			continue
		}
		var item charadesWordItem
		if err := json.Unmarshal(raw, &item); err == nil {
			words = append(words, item.Word)
		}
	}
	return nonEmpty(words), nil
}

// CheckHealth probes {base without /api}/health
func (c *Client) CheckHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.HealthURL(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// HealthURL is the supplier root with any trailing /api removed, plus /health
func (c *Client) HealthURL() string {
	return strings.TrimSuffix(c.baseURL, "/api") + "/health"
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) (bool, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return false, fmt.Errorf("failed to parse response: %w", err)
	}
	return true, nil
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func nonEmpty(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
