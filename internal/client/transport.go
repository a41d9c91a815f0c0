package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Transport sends one GraphQL document through the proxy endpoint and
// decodes the returned data into out.
type Transport interface {
	Do(ctx context.Context, query string, variables map[string]any, out any) error
}

// FetchError is returned for any non-2xx proxy response. 4xx and 5xx are not
// told apart.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fetch failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("fetch failed with status %d: %s", e.StatusCode, e.Message)
}

type proxyRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type proxyError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// HTTPTransport posts to a proxy URL.
type HTTPTransport struct {
	url    string
	client *http.Client
}

// NewHTTPTransport creates a transport for the proxy at url.
// A nil client means http.DefaultClient.
func NewHTTPTransport(url string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{url: url, client: client}
}

// Do implements Transport.
func (t *HTTPTransport) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(proxyRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ferr := &FetchError{StatusCode: resp.StatusCode}
		var pe proxyError
		if json.Unmarshal(raw, &pe) == nil {
			ferr.Message = pe.Message
		}
		return ferr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// HandlerClient returns an http.Client whose requests are served in-process
// by h. The web page uses it to reach the proxy route of its own router.
func HandlerClient(h http.Handler) *http.Client {
	return &http.Client{Transport: handlerTransport{h: h}}
}

type handlerTransport struct {
	h http.Handler
}

func (t handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		defer req.Body.Close()
	}
	w := &bufferedResponse{header: make(http.Header)}
	t.h.ServeHTTP(w, req)

	status := w.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        w.header,
		Body:          io.NopCloser(&w.body),
		ContentLength: int64(w.body.Len()),
		Request:       req,
	}, nil
}

// bufferedResponse is an http.ResponseWriter that keeps the whole response
// in memory.
type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (w *bufferedResponse) Header() http.Header { return w.header }

func (w *bufferedResponse) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *bufferedResponse) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(p)
}
