// Package remote implements assessment.Store against the assess HTTP API.
package remote

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

	"github.com/rs/zerolog"

	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/logging"
)

// RequestIDHeader carries the caller's request id to the server.
const RequestIDHeader = "X-Request-ID"

// Client talks to a remote assess server. Each call is a single request with
// no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ assessment.Store = (*Client)(nil)

// NewClient creates a client for baseURL. A zero timeout means none.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logging.Component("remote-store"),
	}
}

func (c *Client) ListTasks(ctx context.Context) ([]assessment.Task, error) {
	var tasks []assessment.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return nonNil(tasks), nil
}

func (c *Client) ListTemplates(ctx context.Context) ([]assessment.Template, error) {
	var templates []assessment.Template
	if err := c.do(ctx, http.MethodGet, "/templates", nil, &templates); err != nil {
		return nil, err
	}
	return nonNil(templates), nil
}

func (c *Client) Stats(ctx context.Context) (assessment.Stats, error) {
	var stats assessment.Stats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &stats)
	return stats, err
}

func (c *Client) CreateTask(ctx context.Context, draft assessment.TaskDraft) (assessment.Task, error) {
	var task assessment.Task
	err := c.do(ctx, http.MethodPost, "/tasks", draft, &task)
	return task, err
}

func (c *Client) GetTask(ctx context.Context, id string) (assessment.Task, error) {
	var task assessment.Task
	err := c.do(ctx, http.MethodGet, taskPath(id), nil, &task)
	return task, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch assessment.TaskPatch) (assessment.Task, error) {
	var task assessment.Task
	err := c.do(ctx, http.MethodPut, taskPath(id), patch, &task)
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func (c *Client) ListItems(ctx context.Context, taskID string) ([]assessment.Item, error) {
	var items []assessment.Item
	if err := c.do(ctx, http.MethodGet, taskPath(taskID)+"/items", nil, &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func (c *Client) UpdateItem(ctx context.Context, taskID, itemID string, patch assessment.ItemPatch) (assessment.Item, error) {
	var item assessment.Item
	path := taskPath(taskID) + "/items/" + url.PathEscape(itemID)
	err := c.do(ctx, http.MethodPut, path, patch, &item)
	return item, err
}

func (c *Client) GetResult(ctx context.Context, taskID string) (assessment.Result, error) {
	var result assessment.Result
	err := c.do(ctx, http.MethodGet, taskPath(taskID)+"/result", nil, &result)
	return result, err
}

// do sends one JSON request and decodes the response into out. A nil out
// discards the body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logging.GetRequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	c.log.Debug().Ctx(ctx).Str("method", method).Str("path", path).Msg("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Ctx(ctx).Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w: %w", method, path, assessment.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := statusError(resp)
		c.log.Debug().Ctx(ctx).Err(err).Int("status", resp.StatusCode).Str("path", path).Msg("error response")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorBody is the JSON error envelope returned by the server.
type errorBody struct {
	Error string `json:"error"`
}

// statusError maps an HTTP error response onto the store sentinels.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	msg := strings.TrimSpace(string(raw))
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
		msg = eb.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		sentinel = assessment.ErrValidation
	case resp.StatusCode == http.StatusNotFound:
		sentinel = assessment.ErrNotFound
	case resp.StatusCode >= 500:
		sentinel = assessment.ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
	}
	return &StatusError{Code: resp.StatusCode, Message: msg, sentinel: sentinel}
}

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Code     int
	Message  string
	sentinel error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// Unwrap exposes the matching assessment sentinel for errors.Is.
func (e *StatusError) Unwrap() error { return e.sentinel }

// IsStatus reports whether err carries an HTTP status code equal to code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
