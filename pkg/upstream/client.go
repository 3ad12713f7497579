package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/1mgroot/Tracil-sub000/pkg/errors"
	"github.com/1mgroot/Tracil-sub000/pkg/httputil"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
	"github.com/1mgroot/Tracil-sub000/pkg/observability"
)

const (
	// analyzePath is the inference backend's lineage endpoint.
	analyzePath = "/analyze-variable"

	// defaultTimeout allows for LLM-backed inference, which routinely takes
	// tens of seconds per variable.
	defaultTimeout = 120 * time.Second

	defaultRetryAttempts = 3
	defaultRetryDelay    = time.Second
)

// Client calls the external lineage inference backend.
//
// Transient failures (network errors, 5xx responses) are retried with
// exponential backoff. When the backend stays unavailable, the client
// returns a degraded single-node graph instead of an error so callers
// always have something to lay out; set Strict to surface the error
// instead.
//
// All methods are safe for concurrent use.
type Client struct {
	baseURL       string
	strict        bool
	http          *http.Client
	cache         *httputil.Cache
	log           *log.Logger
	retryAttempts int
	retryDelay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithCache enables response caching. The client stores decoded graphs
// under the "upstream:" namespace, keyed by dataset and variable.
func WithCache(hc *httputil.Cache) Option {
	return func(c *Client) {
		if hc != nil {
			c.cache = hc.Namespace("upstream:")
		}
	}
}

// WithLogger sets the client's logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithStrict makes inference failures surface as errors instead of
// degrading to a single-node graph.
func WithStrict() Option {
	return func(c *Client) { c.strict = true }
}

// WithRetry overrides the retry policy for transient failures.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// NewClient creates a client for the inference backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		http:          &http.Client{Timeout: defaultTimeout},
		log:           log.NewWithOptions(io.Discard, log.Options{}),
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type analyzeRequest struct {
	Dataset  string `json:"dataset"`
	Variable string `json:"variable"`
}

// AnalyzeVariable asks the backend to trace the lineage of one variable.
//
// Dataset and variable are normalized to uppercase before validation and
// dispatch. Responses are accepted in either wire form (bare graph or
// analyze envelope) and cached when a cache is configured; degraded
// results are never cached.
//
// Validation failures and context cancellation always return an error.
// Backend failures return an error only in strict mode; otherwise the
// degraded graph from [Degraded] is returned with a nil error.
func (c *Client) AnalyzeVariable(ctx context.Context, dataset, variable string) (lineage.Graph, error) {
	dataset = strings.ToUpper(strings.TrimSpace(dataset))
	variable = strings.ToUpper(strings.TrimSpace(variable))
	if err := errors.ValidateDatasetName(dataset); err != nil {
		return lineage.Graph{}, err
	}
	if err := errors.ValidateVariableName(variable); err != nil {
		return lineage.Graph{}, err
	}

	key := dataset + ":" + variable
	if c.cache != nil {
		var g lineage.Graph
		if ok, _ := c.cache.Get(key, &g); ok {
			c.log.Debug("upstream cache hit", "dataset", dataset, "variable", variable)
			return g, nil
		}
	}

	var g lineage.Graph
	err := httputil.Retry(ctx, c.retryAttempts, c.retryDelay, func() error {
		var ferr error
		g, ferr = c.analyze(ctx, dataset, variable)
		return ferr
	})
	if err != nil {
		if c.strict || ctx.Err() != nil {
			return lineage.Graph{}, err
		}
		c.log.Warn("inference backend unavailable, returning degraded lineage",
			"dataset", dataset, "variable", variable, "err", err)
		return Degraded(dataset, variable, err), nil
	}

	if c.cache != nil {
		if err := c.cache.Set(key, g); err != nil {
			c.log.Debug("upstream cache write failed", "key", key, "err", err)
		}
	}
	return g, nil
}

// analyze performs one POST attempt against the backend.
func (c *Client) analyze(ctx context.Context, dataset, variable string) (lineage.Graph, error) {
	body, err := json.Marshal(analyzeRequest{Dataset: dataset, Variable: variable})
	if err != nil {
		return lineage.Graph{}, errors.Wrap(errors.ErrCodeInternal, err, "failed to encode analyze request")
	}

	url := c.baseURL + analyzePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return lineage.Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to build request for %s", url)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return lineage.Graph{}, &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeNetwork, err, "failed to reach inference backend at %s", c.baseURL),
		}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return lineage.Graph{}, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return lineage.Graph{}, &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeNetwork, err, "failed to read inference response"),
		}
	}
	g, err := lineage.UnmarshalGraph(data)
	if err != nil {
		return lineage.Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "inference backend returned malformed lineage")
	}
	return g, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "inference endpoint not found (status 404)")
	case code == http.StatusTooManyRequests:
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeRateLimited, "inference backend rate limited the request"),
		}
	case code >= 500:
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeUpstream, "inference backend returned status %d", code),
		}
	default:
		return errors.New(errors.ErrCodeUpstream, "inference backend returned status %d", code)
	}
}

// Degraded builds the single-node fallback graph for a failed inference
// call: the queried variable as an unconnected target plus a gap naming
// the failure. It mirrors the backend's own error payload so downstream
// stages see the same shape whichever side degraded.
func Degraded(dataset, variable string, cause error) lineage.Graph {
	gap := "Lineage service error"
	if cause != nil {
		gap += ": " + errors.UserMessage(cause)
	}
	return lineage.Graph{
		Nodes: []lineage.Node{{
			ID:       strings.ToLower(dataset + "." + variable),
			Dataset:  dataset,
			Variable: variable,
			Kind:     lineage.KindTarget,
			Meta:     lineage.Metadata{"explanation": "[general] Error path."},
		}},
		Edges: []lineage.Edge{},
		Gaps:  []lineage.Gap{{Explanation: gap}},
	}
}
