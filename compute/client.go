// Package compute is the client for the external math compute service.
//
// The service does the symbolic work (solving, differentiation,
// statistics) and answers with a {success, data, error} envelope whose data
// is a domain payload for engine.Render. This is the only package in the
// module that performs network I/O.
package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spektr-org/mathviz/schema"
)

// DefaultBaseURL is where a locally running compute service listens.
const DefaultBaseURL = "http://localhost:8000/mathcompute"

// DefaultTimeout bounds every call unless WithTimeout overrides it.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps the bytes read from one response.
const maxResponseSize = 10 * 1024 * 1024

// RequestIDHeader carries the per-call UUID.
const RequestIDHeader = "X-Request-ID"

// Endpoint names, also used as metric labels.
const (
	EndpointVisualize  = "visualize"
	EndpointStatistics = "statistics"
	EndpointParse      = "parse"
	EndpointHealth     = "health"
)

// ============================================================================
// CLIENT
// ============================================================================

// Client calls the compute service. It holds no per-request state and is
// safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	metrics    *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each call. Zero or negative disables the bound and
// leaves cancellation to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records request counts and latency.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for the service at baseURL. An empty baseURL
// means DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// ============================================================================
// REQUESTS AND RESPONSES
// ============================================================================

// VisualizeRequest asks the service to analyze one expression.
type VisualizeRequest struct {
	LaTeX  string        `json:"latex"`
	Module schema.Domain `json:"module"`

	// UseAI overrides the service's natural-language parser setting.
	UseAI *bool `json:"use_ai,omitempty"`
}

// ParsingInfo records how the service rewrote the submitted input.
type ParsingInfo struct {
	OriginalInput string `json:"original_input"`
	ParsedInput   string `json:"parsed_input"`
	Method        string `json:"method"`
}

// Response is a successful analysis.
type Response struct {
	RequestID string `json:"requestId"`

	// Data is the domain payload, ready for engine.Render.
	Data json.RawMessage `json:"data"`

	ParsingInfo *ParsingInfo `json:"parsingInfo,omitempty"`
}

// Type returns the payload's type discriminator.
func (r *Response) Type() string {
	env, err := schema.Decode(r.Data)
	if err != nil {
		return ""
	}
	return env.Type()
}

// ParseResult compares the service's AI and rule-based parsers on one input.
type ParseResult struct {
	RequestID     string `json:"requestId"`
	OriginalInput string `json:"original_input"`
	AIParsing     struct {
		Success bool   `json:"success"`
		Result  string `json:"result"`
	} `json:"ai_parsing"`
	FallbackParsing struct {
		Result string `json:"result"`
	} `json:"fallback_parsing"`
}

// Health is the service status report.
type Health struct {
	Status            string `json:"status"`
	Message           string `json:"message"`
	AIParserAvailable bool   `json:"ai_parser_available"`
	Features          struct {
		AIParsing       bool     `json:"ai_parsing"`
		FallbackParsing bool     `json:"fallback_parsing"`
		Modules         []string `json:"modules"`
	} `json:"features"`
}

// Healthy reports whether the service said it is healthy.
func (h *Health) Healthy() bool { return h.Status == "healthy" }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// ============================================================================
// ENDPOINTS
// ============================================================================

// Visualize submits an expression for analysis in the given domain.
func (c *Client) Visualize(ctx context.Context, req VisualizeRequest) (*Response, error) {
	if strings.TrimSpace(req.LaTeX) == "" {
		return nil, fatal(errors.New("visualize: empty expression"))
	}
	if !req.Module.Valid() || req.Module == schema.Statistics {
		return nil, fatal(fmt.Errorf("visualize: module %q is not an expression domain", req.Module))
	}
	return c.analysis(ctx, EndpointVisualize, "/api/visualize", req)
}

// Statistics runs one statistics operation. Build req with BuildStatsRequest.
func (c *Client) Statistics(ctx context.Context, req StatsRequest) (*Response, error) {
	if req.Operation == "" {
		return nil, fatal(errors.New("statistics: operation is required"))
	}
	return c.analysis(ctx, EndpointStatistics, "/api/statistics", req)
}

// Parse asks the service how it would read a natural-language input
// without running the analysis.
func (c *Client) Parse(ctx context.Context, input string, module schema.Domain) (*ParseResult, error) {
	body := struct {
		Input  string        `json:"input"`
		Module schema.Domain `json:"module"`
	}{input, module}

	var out ParseResult
	err := c.call(ctx, EndpointParse, http.MethodPost, "/api/parse", body, func(id string, raw []byte) error {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fatal(fmt.Errorf("decode parse response: %w", err))
		}
		if !env.Success {
			return fatal(&ServiceError{Message: orUnknown(env.Error)})
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return fatal(fmt.Errorf("decode parse response: %w", err))
		}
		out.RequestID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the service status.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	err := c.call(ctx, EndpointHealth, http.MethodGet, "/api/health", nil, func(_ string, raw []byte) error {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fatal(fmt.Errorf("decode health response: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// analysis posts body and unwraps a {success, data, error} envelope.
func (c *Client) analysis(ctx context.Context, endpoint, path string, body any) (*Response, error) {
	var out *Response
	err := c.call(ctx, endpoint, http.MethodPost, path, body, func(id string, raw []byte) error {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fatal(fmt.Errorf("decode %s response: %w", endpoint, err))
		}
		if !env.Success {
			return fatal(&ServiceError{Message: orUnknown(env.Error)})
		}
		if _, err := schema.Decode(env.Data); err != nil {
			return fatal(fmt.Errorf("%s response data: %w", endpoint, err))
		}
		out = &Response{RequestID: id, Data: env.Data}
		var info struct {
			ParsingInfo *ParsingInfo `json:"parsing_info"`
		}
		if err := json.Unmarshal(env.Data, &info); err == nil {
			out.ParsingInfo = info.ParsingInfo
		}
		return nil
	})
	return out, err
}

// ============================================================================
// TRANSPORT
// ============================================================================

// call performs one request and hands a 200 body to decode.
func (c *Client) call(ctx context.Context, endpoint, method, path string, body any,
	decode func(requestID string, raw []byte) error) (err error) {

	requestID := uuid.New().String()
	started := time.Now()
	log := c.logger.With(
		slog.String("endpoint", endpoint),
		slog.String("request_id", requestID))
	defer func() {
		c.metrics.observe(endpoint, started, err)
		if err != nil {
			log.Warn("compute request failed", slog.String("error", err.Error()))
		}
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fatal(fmt.Errorf("encode %s request: %w", endpoint, err))
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fatal(fmt.Errorf("create %s request: %w", endpoint, err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	log.Debug("sending compute request", slog.String("url", req.URL.String()))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transient(fmt.Errorf("%s request: %w", endpoint, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return transient(fmt.Errorf("read %s response: %w", endpoint, err))
	}

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp.StatusCode, errorMessage(raw))
	}
	return decode(requestID, raw)
}

// errorMessage extracts the envelope error from a failed response, falling
// back to the start of the body.
func errorMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != "" {
		return env.Error
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return orUnknown(s)
}

func orUnknown(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	return msg
}
