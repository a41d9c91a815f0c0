// Package fauna implements a GraphQL-over-HTTP client for the Fauna GraphQL
// endpoint, authenticated with a static bearer secret.
package fauna

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	graphql "github.com/hasura/go-graphql-client"
	"golang.org/x/oauth2"
)

// Request is a GraphQL request body. Variables are forwarded as raw JSON so
// that values are never re-encoded.
type Request struct {
	Query     string          `json:"query"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

// GraphQLError is one entry of a GraphQL response's errors array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// ClientError is returned when the endpoint answers with a non-2xx status or
// with GraphQL errors. Body is kept for non-2xx answers only.
type ClientError struct {
	StatusCode int
	Errors     []GraphQLError
	Body       []byte
}

func (e *ClientError) Error() string {
	if len(e.Errors) > 0 && e.Errors[0].Message != "" {
		return e.Errors[0].Message
	}
	return fmt.Sprintf("GraphQL Error (Code: %d)", e.StatusCode)
}

// Client sends GraphQL requests to one endpoint.
type Client struct {
	gql     *graphql.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	base    *http.Client
	timeout time.Duration
}

// WithHTTPClient sets the client whose transport carries the requests (for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.base = c }
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// New creates a client for endpoint. Every request carries
// "Authorization: Bearer <credential>"; an empty credential is sent as is.
func New(endpoint, credential string, opts ...Option) *Client {
	o := clientOptions{base: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.base.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	hc := &http.Client{
		Transport: recordingTransport{base: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: credential,
				TokenType:   "Bearer",
			}),
			Base: base,
		}},
		CheckRedirect: o.base.CheckRedirect,
		Jar:           o.base.Jar,
	}
	return &Client{
		gql:     graphql.NewClient(endpoint, hc),
		timeout: o.timeout,
	}
}

// Do executes req and returns the response's data member exactly as received.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	vars, err := decodeVariables(req.Variables)
	if err != nil {
		return nil, err
	}

	ex := &exchange{}
	data, err := c.gql.ExecRaw(context.WithValue(ctx, exchangeKey{}, ex), req.Query, vars)
	if err != nil {
		return nil, ex.classify(ctx, err)
	}
	if len(data) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(data), nil
}

// decodeVariables splits the variables object into raw values, so each one is
// written back byte for byte when the request is encoded.
func decodeVariables(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("invalid variables: %w", err)
	}
	vars := make(map[string]any, len(fields))
	for k, v := range fields {
		vars[k] = v
	}
	return vars, nil
}

// Error codes the GraphQL library puts on errors it raised itself.
var libraryErrorCodes = map[string]bool{
	"request_error":        true,
	"json_encode_error":    true,
	"json_decode_error":    true,
	"graphql_encode_error": true,
	"graphql_decode_error": true,
}

type exchangeKey struct{}

// exchange records what the HTTP layer saw for one request.
type exchange struct {
	status int
	body   []byte
	err    error
}

// classify turns a failed ExecRaw into the error reported to callers.
func (ex *exchange) classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("fauna request: %w", ctxErr)
	}
	if ex.err != nil {
		return ex.err
	}
	if ex.status != 0 && (ex.status < 200 || ex.status >= 300) {
		cerr := &ClientError{StatusCode: ex.status, Body: ex.body}
		var parsed struct {
			Errors []GraphQLError `json:"errors"`
		}
		if json.Unmarshal(ex.body, &parsed) == nil {
			cerr.Errors = parsed.Errors
		}
		return cerr
	}

	var gqlErrs graphql.Errors
	if !errors.As(err, &gqlErrs) {
		return err
	}
	cerr := &ClientError{StatusCode: ex.status}
	for _, e := range gqlErrs {
		if code, _ := e.Extensions["code"].(string); libraryErrorCodes[code] {
			return fmt.Errorf("invalid response body: %w", err)
		}
		cerr.Errors = append(cerr.Errors, GraphQLError{Message: e.Message, Extensions: e.Extensions})
	}
	return cerr
}

// recordingTransport notes the status of each response, the body of non-2xx
// answers and transport failures on the request's exchange.
type recordingTransport struct {
	base http.RoundTripper
}

func (t recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	ex, _ := req.Context().Value(exchangeKey{}).(*exchange)
	if ex == nil {
		return resp, err
	}
	if err != nil {
		ex.err = err
		return nil, err
	}

	ex.status = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			ex.err = fmt.Errorf("reading response: %w", readErr)
			return nil, ex.err
		}
		ex.body = body
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}
