package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"todo-web/config"
	"todo-web/graph"
	"todo-web/pkg/entity/model"

	gqlgen "github.com/99designs/gqlgen/graphql"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "todo-web/pkg/infrastructure/graphql"

// FetchPolicy decides whether a query may be answered from the cache.
type FetchPolicy int

const (
	// CacheFirst answers from the cache when every selected field is cached
	// and goes to the network otherwise.
	CacheFirst FetchPolicy = iota
	// NetworkOnly always sends a request. The result is still written to the cache.
	NetworkOnly
)

// QueryOption configures a single Query call.
type QueryOption func(*queryOptions)

type queryOptions struct {
	policy   FetchPolicy
	validate func(json.RawMessage) error
}

// WithFetchPolicy sets the fetch policy of a query.
func WithFetchPolicy(p FetchPolicy) QueryOption {
	return func(o *queryOptions) {
		o.policy = p
	}
}

// WithValidator rejects a response before it is cached. An error from
// validate fails the query; errors without a code become
// RESPONSE_SHAPE_ERRORs. Cached answers are checked too and refetched when
// they fail.
func WithValidator(validate func(data json.RawMessage) error) QueryOption {
	return func(o *queryOptions) {
		o.validate = validate
	}
}

// Options of the client
type Options struct {
	// Endpoint is the absolute http(s) URL every query is sent to.
	Endpoint string
	// Schema, when set, is the SDL documents are validated against on Parse.
	Schema string
	// HTTPClient defaults to a client without timeout.
	HTTPClient *http.Client
	// Cache defaults to a new InMemoryCache.
	Cache  *InMemoryCache
	Logger *zap.Logger
}

// Client sends GraphQL queries to a single endpoint and keeps their results in
// a normalized in-memory cache. One Client is created at start up and shared
// by everything that renders todos.
type Client struct {
	endpoint   *url.URL
	schema     *ast.Schema
	httpClient *http.Client
	cache      *InMemoryCache
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewClientFromConfig creates a client for the endpoint in config.C whose
// documents are validated against the todo server schema.
func NewClientFromConfig(logger *zap.Logger) (*Client, error) {
	return NewClient(Options{
		Endpoint: config.C.GraphQL.Endpoint,
		Schema:   graph.Schema,
		Logger:   logger,
	})
}

// NewClient creates a client. It fails with an INVALID_CONFIG_ERROR when the
// endpoint is not an absolute http(s) URL or the schema does not load. No
// request is sent until the client is queried.
func NewClient(opts Options) (*Client, error) {
	endpoint, err := parseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, model.NewInvalidConfigError(err)
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: opts.HTTPClient,
		cache:      opts.Cache,
		logger:     opts.Logger,
		tracer:     otel.Tracer(tracerName),
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.cache == nil {
		c.cache = NewInMemoryCache()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if opts.Schema != "" {
		schema, err := LoadSchema(opts.Schema)
		if err != nil {
			return nil, model.NewInvalidConfigError(err)
		}
		c.schema = schema
	}

	return c, nil
}

func parseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid graphql endpoint %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid graphql endpoint %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, errors.Errorf("invalid graphql endpoint %q: missing host", raw)
	}
	return u, nil
}

// Endpoint returns the URL queries are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Cache returns the client's result cache.
func (c *Client) Cache() *InMemoryCache {
	return c.cache
}

// Parse parses a query document, validating it against the client's schema
// when one is configured.
func (c *Client) Parse(source string) (*Document, error) {
	return ParseDocument(source, c.schema)
}

// ReadQuery answers doc from the cache only.
func (c *Client) ReadQuery(doc *Document) (json.RawMessage, bool) {
	data, ok := c.cache.Read(doc)
	if !ok {
		return nil, false
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	return b, true
}

// Query executes doc and returns the "data" member of the response.
//
// Failures to reach the server, non-2xx answers and GraphQL errors are
// TRANSPORT_ERRORs. Bodies that are not a GraphQL response, carry no data or
// fail the query's validator are RESPONSE_SHAPE_ERRORs. Only accepted
// responses are written to the cache.
func (c *Client) Query(ctx context.Context, doc *Document, opts ...QueryOption) (json.RawMessage, error) {
	o := queryOptions{policy: CacheFirst}
	for _, opt := range opts {
		opt(&o)
	}

	if o.policy == CacheFirst {
		if data, ok := c.ReadQuery(doc); ok && (o.validate == nil || o.validate(data) == nil) {
			c.logger.Debug("graphql cache hit", zap.String("operation", doc.OperationName))
			return data, nil
		}
	}

	ctx, span := c.tracer.Start(ctx, "graphql.query", trace.WithAttributes(
		attribute.String("graphql.operation.name", doc.OperationName),
		attribute.String("graphql.endpoint", c.endpoint.String()),
	))
	defer span.End()

	data, err := c.fetch(ctx, doc, o.validate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, model.ErrorCode(err))
		return nil, err
	}
	return data, nil
}

func (c *Client) fetch(ctx context.Context, doc *Document, validate func(json.RawMessage) error) (json.RawMessage, error) {
	body, err := json.Marshal(gqlgen.RawParams{
		Query:         doc.String(),
		OperationName: doc.OperationName,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, model.NewTransportError(errors.Wrap(err, "failed to create request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/graphql-response+json, application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewTransportError(errors.Wrap(err, "failed to execute request"))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewTransportError(errors.Wrap(err, "failed to read response body"))
	}

	c.logger.Debug("graphql response",
		zap.String("operation", doc.OperationName),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.NewTransportError(errors.Errorf("server returned status %d", resp.StatusCode))
	}

	var gr gqlgen.Response
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, model.NewResponseShapeError(errors.Wrap(err, "decode graphql response"))
	}
	if len(gr.Errors) > 0 {
		return nil, model.NewTransportError(gr.Errors)
	}
	if len(gr.Data) == 0 || string(gr.Data) == "null" {
		return nil, model.NewResponseShapeError(errors.New("graphql response has no data"))
	}

	data, err := decodeObject(gr.Data)
	if err != nil {
		return nil, model.NewResponseShapeError(errors.Wrap(err, "decode graphql data"))
	}
	if validate != nil {
		if err := validate(gr.Data); err != nil {
			if model.ErrorCode(err) == "" {
				err = model.NewResponseShapeError(err)
			}
			return nil, err
		}
	}
	c.cache.Write(doc, data)

	return gr.Data, nil
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.New("data is not an object")
	}
	return data, nil
}
