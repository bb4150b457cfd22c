// Package feed provides the REST client for the platform's JSON row feeds.
// It fetches raw row arrays, classifies failures into a uniform FetchError,
// and never touches the terminal or any rendering state.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"deskfeed/internal/config"
	"deskfeed/internal/util"
)

// Result is a successful fetch: the raw rows plus envelope metadata.
type Result struct {
	Rows    []map[string]any
	Total   int
	HasMore bool
}

// ActionResult is the response envelope of a POST action.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Err     string `json:"error,omitempty"`
}

// Client issues requests against the platform API. It retries transient
// transport failures and honours a token-bucket rate limit.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *util.RateLimiter
	maxRetries int
	log        *slog.Logger
}

// NewClient builds a Client from the API config section.
func NewClient(cfg config.API, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		limiter:    util.NewRateLimiter(cfg.RateLimitPerMin),
		maxRetries: cfg.MaxRetries,
		log:        log,
	}
}

// Fetch GETs one feed endpoint and extracts the rows array stored under
// rowsKey ("" accepts any array-of-objects member). Absent params are
// omitted from the query string entirely; callers must not pass empty-string
// placeholders.
//
// All failures surface as *FetchError: transport errors as KindNetwork
// (retried with backoff first), non-2xx as KindHTTP with the server's error
// body when parseable, and a missing rows array as KindBadShape.
func (c *Client) Fetch(ctx context.Context, endpoint, rowsKey string, params map[string]string) (Result, error) {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			if v == "" {
				continue
			}
			q.Set(k, v)
		}
		if enc := q.Encode(); enc != "" {
			u += "?" + enc
		}
	}

	var body []byte
	var status int
	err := util.Retry(ctx, c.maxRetries, 500*time.Millisecond, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		b, s, err := c.get(ctx, u)
		if err != nil {
			c.log.Warn("fetch attempt failed", "endpoint", endpoint, "error", err)
			return err
		}
		body, status = b, s
		return nil
	})
	if err != nil {
		return Result{}, &FetchError{Kind: KindNetwork, Endpoint: endpoint, Message: "network failure: " + err.Error()}
	}

	if status < 200 || status > 299 {
		return Result{}, &FetchError{
			Kind:     KindHTTP,
			Endpoint: endpoint,
			Status:   status,
			Message:  errorMessage(body, status),
		}
	}

	return parseEnvelope(endpoint, rowsKey, body)
}

// get performs one GET round trip, returning the body and status. Only
// transport-level failures return an error; HTTP errors are the caller's to
// classify.
func (c *Client) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// Post sends a JSON action request, e.g. signals/reanalyze.
func (c *Client) Post(ctx context.Context, endpoint string, payload any) (ActionResult, error) {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	data, err := json.Marshal(payload)
	if err != nil {
		return ActionResult{}, fmt.Errorf("encoding %s payload: %w", endpoint, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return ActionResult{}, &FetchError{Kind: KindNetwork, Endpoint: endpoint, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return ActionResult{}, &FetchError{Kind: KindNetwork, Endpoint: endpoint, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ActionResult{}, &FetchError{Kind: KindNetwork, Endpoint: endpoint, Message: "network failure: " + err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ActionResult{}, &FetchError{Kind: KindNetwork, Endpoint: endpoint, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ActionResult{}, &FetchError{
			Kind:     KindHTTP,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  errorMessage(body, resp.StatusCode),
		}
	}

	var result ActionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return ActionResult{}, &FetchError{Kind: KindBadShape, Endpoint: endpoint, Message: err.Error()}
	}
	return result, nil
}

// errorMessage extracts {"error": "..."} from an error body, falling back to
// the HTTP status line when the body is not parseable.
func errorMessage(body []byte, status int) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return fmt.Sprintf("HTTP %d %s", status, http.StatusText(status))
}

// parseEnvelope decodes a 2xx body of the shape
// { <rows-key>: [...], error?, total?, has_more? } and finds the rows array.
func parseEnvelope(endpoint, rowsKey string, body []byte) (Result, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Result{}, &FetchError{Kind: KindBadShape, Endpoint: endpoint, Message: err.Error()}
	}

	if raw, ok := envelope["error"]; ok {
		var msg string
		if json.Unmarshal(raw, &msg) == nil && msg != "" {
			return Result{}, &FetchError{Kind: KindHTTP, Endpoint: endpoint, Status: http.StatusOK, Message: msg}
		}
	}

	res := Result{}
	if raw, ok := envelope["total"]; ok {
		_ = json.Unmarshal(raw, &res.Total)
	}
	if raw, ok := envelope["has_more"]; ok {
		_ = json.Unmarshal(raw, &res.HasMore)
	}

	if rowsKey != "" {
		raw, ok := envelope[rowsKey]
		if !ok {
			return Result{}, &FetchError{Kind: KindBadShape, Endpoint: endpoint, Message: "missing " + rowsKey + " array"}
		}
		if err := json.Unmarshal(raw, &res.Rows); err != nil {
			return Result{}, &FetchError{Kind: KindBadShape, Endpoint: endpoint, Message: rowsKey + " is not a row array"}
		}
		return res, nil
	}

	// No declared rows key: accept any array-of-objects member.
	for key, raw := range envelope {
		switch key {
		case "error", "total", "has_more":
			continue
		}
		var rows []map[string]any
		if err := json.Unmarshal(raw, &rows); err == nil {
			res.Rows = rows
			return res, nil
		}
	}

	return Result{}, &FetchError{Kind: KindBadShape, Endpoint: endpoint, Message: "no rows array in response"}
}
