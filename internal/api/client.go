package api

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

	"github.com/sirupsen/logrus"
)

// ErrEmptyResponse is returned by wrappers that need a payload when the
// server answered with an empty body.
var ErrEmptyResponse = errors.New("empty response body")

// HTTPError is returned when the server answers with a status outside
// 200, 201 and 204. Body carries the raw response text.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is an HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == status
}

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestOpts captures inputs for an API call.
type RequestOpts struct {
	Method   string
	Endpoint string
	Query    map[string]string
	Body     any
}

// Client talks to the food-delivery API. It never retries.
type Client struct {
	baseURL string
	http    Doer
	log     *logrus.Entry
}

// NewClient builds a client for baseURL. A zero timeout means requests
// can block until ctx is cancelled.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return NewClientWithDoer(baseURL, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithDoer builds a client on a custom transport.
func NewClientWithDoer(baseURL string, doer Doer, logger *logrus.Logger) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL: baseURL,
		http:    doer,
		log:     logger.WithField("component", "api"),
	}
}

func (c *Client) makeURL(endpoint string, query map[string]string) string {
	target := c.baseURL + strings.TrimLeft(endpoint, "/")
	values := url.Values{}
	for k, v := range query {
		values.Set(k, v)
	}
	return target + "?" + values.Encode()
}

// Request performs one API call and decodes the JSON response into out.
// found is false when the response body is empty; out is then untouched.
func (c *Client) Request(ctx context.Context, opts RequestOpts, out any) (bool, error) {
	if opts.Method == "" {
		return false, errors.New("request method is required")
	}
	target := c.makeURL(opts.Endpoint, opts.Query)
	entry := c.log.WithFields(logrus.Fields{"method": opts.Method, "endpoint": opts.Endpoint})

	found, err := c.do(ctx, opts, target, out)
	if err != nil {
		entry.WithError(err).Error("API request failed")
		return false, err
	}
	entry.Debug("API request done")
	return found, nil
}

func (c *Client) do(ctx context.Context, opts RequestOpts, target string, out any) (bool, error) {
	var bodyReader io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return false, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, target, bodyReader)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
	default:
		return false, &HTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return false, fmt.Errorf("unmarshal response: %w", err)
	}
	return true, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query map[string]string, out any) (bool, error) {
	return c.Request(ctx, RequestOpts{Method: http.MethodGet, Endpoint: endpoint, Query: query}, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body any, out any) (bool, error) {
	return c.Request(ctx, RequestOpts{Method: http.MethodPost, Endpoint: endpoint, Body: body}, out)
}

func (c *Client) put(ctx context.Context, endpoint string, body any, out any) (bool, error) {
	return c.Request(ctx, RequestOpts{Method: http.MethodPut, Endpoint: endpoint, Body: body}, out)
}

// requirePayload turns the "null" result into ErrEmptyResponse for callers
// that cannot work without a body.
func requirePayload(found bool, err error) error {
	if err != nil {
		return err
	}
	if !found {
		return ErrEmptyResponse
	}
	return nil
}
