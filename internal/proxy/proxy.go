// Package proxy implements the /api/fauna route: it forwards a GraphQL
// {query, variables} body to the configured Fauna endpoint with the bearer
// credential injected and relays the result or a JSON error.
package proxy

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"faunatodo/internal/backend/fauna"
	"faunatodo/internal/logging"
)

// Route is the path the handler is mounted on.
const Route = "/api/fauna"

//go:embed request.schema.json
var requestSchemaJSON string

var requestSchema = jsonschema.MustCompileString("request.schema.json", requestSchemaJSON)

// ErrEndpointMissing is returned for every request when no endpoint is configured.
var ErrEndpointMissing = errors.New("fauna API endpoint missing in environment variables")

// MethodNotAllowedError is returned for non-POST requests when EnforcePOST is set.
type MethodNotAllowedError struct {
	Method string
	Path   string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("Cannot %s %s", e.Method, e.Path)
}

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Requester executes a GraphQL request against the remote.
type Requester interface {
	Do(ctx context.Context, req fauna.Request) (json.RawMessage, error)
}

// ClientFactory builds a Requester bound to an endpoint and credential.
type ClientFactory func(endpoint, credential string) Requester

// Options is the read-only configuration injected at startup.
type Options struct {
	Endpoint    string
	Credential  string
	Timeout     time.Duration
	EnforcePOST bool

	// NewClient overrides the Fauna client constructor (for testing).
	NewClient ClientFactory

	Logger *log.Logger
}

// Handler serves the proxy route.
type Handler struct {
	opts      Options
	newClient ClientFactory
	logger    *log.Logger
}

// New creates a Handler. Options are copied; later changes have no effect.
func New(opts Options) *Handler {
	h := &Handler{opts: opts, newClient: opts.NewClient, logger: opts.Logger}
	if h.newClient == nil {
		timeout := opts.Timeout
		h.newClient = func(endpoint, credential string) Requester {
			return fauna.New(endpoint, credential, fauna.WithTimeout(timeout))
		}
	}
	if h.logger == nil {
		h.logger = logging.Discard()
	}
	return h
}

// Register mounts the handler on Route for every method.
func (h *Handler) Register(r gin.IRoutes) {
	r.Any(Route, h.Serve)
}

// Serve handles one proxy request.
func (h *Handler) Serve(c *gin.Context) {
	data, err := h.forward(c)
	if err != nil {
		status := StatusFor(err)
		h.logger.Error("proxy request failed", "status", status, "err", err)
		c.JSON(status, ErrorBody{StatusCode: status, Message: err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *Handler) forward(c *gin.Context) (json.RawMessage, error) {
	if h.opts.Endpoint == "" {
		return nil, ErrEndpointMissing
	}

	if h.opts.EnforcePOST && c.Request.Method != http.MethodPost {
		return nil, &MethodNotAllowedError{Method: c.Request.Method, Path: Route}
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}

	req, err := DecodeRequest(body)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("forwarding", "operation", OperationName(req.Query))

	client := h.newClient(h.opts.Endpoint, h.opts.Credential)
	return client.Do(c.Request.Context(), req)
}

// StatusFor maps an error to the proxy's response status.
func StatusFor(err error) int {
	var mna *MethodNotAllowedError
	if errors.As(err, &mna) {
		return http.StatusMethodNotAllowed
	}
	return http.StatusInternalServerError
}

// DecodeRequest validates body and returns the request to forward.
// The variables object is kept byte-for-byte.
func DecodeRequest(body []byte) (fauna.Request, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fauna.Request{}, fmt.Errorf("invalid request body: %w", err)
	}
	if err := requestSchema.Validate(doc); err != nil {
		return fauna.Request{}, fmt.Errorf("invalid request body: %s", schemaMessage(err))
	}

	var req fauna.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return fauna.Request{}, fmt.Errorf("invalid request body: %w", err)
	}
	if string(req.Variables) == "null" {
		req.Variables = nil
	}
	return req, nil
}

// schemaMessage flattens a validation error into one line.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	collectSchemaErrors(ve, &msgs)
	return strings.Join(msgs, "; ")
}

func collectSchemaErrors(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, loc+": "+ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, msgs)
	}
}

var operationPattern = regexp.MustCompile(`^\s*(query|mutation|subscription)\s+([_A-Za-z][_0-9A-Za-z]*)`)

// OperationName returns the named operation of a GraphQL document, or
// "anonymous".
func OperationName(query string) string {
	if m := operationPattern.FindStringSubmatch(query); m != nil {
		return m[2]
	}
	return "anonymous"
}
