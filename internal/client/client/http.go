package client

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

	"github.com/dmitrijs2005/logkeeper/internal/api"
	"github.com/dmitrijs2005/logkeeper/internal/common"
)

const maxResponseBytes = 10 << 20

type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// NewHTTPClient returns a client for the API rooted at baseURL
// (e.g. "http://localhost:3002"). Each request is bounded by timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
	}
}

func (c *HTTPClient) List(ctx context.Context) Envelope[[]api.Record] {
	return do[[]api.Record](ctx, c, http.MethodGet, common.LogsPath, nil)
}

func (c *HTTPClient) Create(ctx context.Context, owner, logText string) Envelope[api.Record] {
	return do[api.Record](ctx, c, http.MethodPost, common.LogsPath, api.LogRequest{Owner: owner, LogText: logText})
}

func (c *HTTPClient) Update(ctx context.Context, id, owner, logText string) Envelope[api.Record] {
	return do[api.Record](ctx, c, http.MethodPut, logPath(id), api.LogRequest{Owner: owner, LogText: logText})
}

func (c *HTTPClient) Delete(ctx context.Context, id string) Envelope[api.Record] {
	return do[api.Record](ctx, c, http.MethodDelete, logPath(id), nil)
}

func (c *HTTPClient) Health(ctx context.Context) Envelope[struct{}] {
	return do[struct{}](ctx, c, http.MethodGet, "/health", nil)
}

func (c *HTTPClient) Export(ctx context.Context) Envelope[api.Export] {
	return do[api.Export](ctx, c, http.MethodPost, "/exports", nil)
}

func logPath(id string) string {
	return common.LogsPath + "/" + url.PathEscape(id)
}

func do[T any](ctx context.Context, c *HTTPClient, method, path string, body any) Envelope[T] {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return transportFailure[T](0, err.Error())
		}
		reader = bytes.NewReader(b)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return transportFailure[T](0, err.Error())
	}
	req.Header.Set("Content-Type", common.ContentTypeJSON)
	req.Header.Set("Accept", common.ContentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return transportFailure[T](0, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportFailure[T](resp.StatusCode, err.Error())
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	httpErr := fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)

	var env Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		if ok {
			return transportFailure[T](resp.StatusCode, "malformed response: "+err.Error())
		}
		return Envelope[T]{Success: false, Error: httpErr, Status: resp.StatusCode, foreign: true}
	}
	if !ok && !hasSuccessField(raw) {
		// an error page from something other than the API
		return Envelope[T]{Success: false, Error: httpErr, Status: resp.StatusCode, foreign: true}
	}
	env.Status = resp.StatusCode

	if !ok {
		env.Success = false
		if env.Error == "" {
			env.Error = httpErr
		}
	}
	if !env.Success && env.Error == "" {
		env.Error = httpErr
	}
	return env
}

func hasSuccessField(raw []byte) bool {
	var head struct {
		Success *bool `json:"success"`
	}
	return json.Unmarshal(raw, &head) == nil && head.Success != nil
}
