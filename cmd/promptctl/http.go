package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// Retry schedule for idempotent reads.
var (
	retryInitialInterval = 200 * time.Millisecond
	retryMaxInterval     = 2 * time.Second
	retryMaxAttempts     = 4
)

// apiError is a non-2xx answer from the service.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, strings.TrimSpace(e.Body))
}

type apiClient struct {
	http *resty.Client
}

func newClient() *apiClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(apiFlag, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeoutFlag)
	return &apiClient{http: c}
}

// get issues a GET, retrying connection failures and 5xx answers with
// exponential backoff. 4xx answers are returned immediately.
func (c *apiClient) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = retryInitialInterval
	exp.Multiplier = 2
	exp.MaxInterval = retryMaxInterval
	exp.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retryMaxAttempts-1)), ctx)

	var body []byte
	op := func() error {
		resp, err := c.http.R().SetContext(ctx).SetQueryParams(query).Get(path)
		if err != nil {
			return fmt.Errorf("GET %s: %w", path, err)
		}
		if err := checkStatus(resp); err != nil {
			if resp.StatusCode() < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		}
		body = resp.Body()
		return nil
	}
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return body, nil
}

// send issues a mutating request once.
func (c *apiClient) send(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := c.http.R().SetContext(ctx)
	if payload != nil {
		req.SetBody(payload)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusBadRequest {
		return &apiError{Status: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

// pathf builds a path escaping each id segment.
func pathf(format string, ids ...string) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}

func printJSON(out io.Writer, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	_, err := fmt.Fprintln(out, buf.String())
	return err
}
