package backend

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

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetries    = 3
	idempotencyHeader = "Idempotency-Key"
	maxBodyBytes      = 4 << 20
	errorSnippetBytes = 512

	instrumentationName = "github.com/sparkle-learn/platform/internal/backend"

	// DefaultCategory is served when the category endpoint is unavailable.
	DefaultCategory = "General"
)

// HTTPClient captures the subset of *http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the multi-tenant catalog backend on behalf of one subscriber.
type Client struct {
	baseURL    *url.URL
	subscriber string
	http       HTTPClient
	logger     *zap.Logger
	tracer     trace.Tracer
	fallbacks  metric.Int64Counter
	retries    int
	newBackOff func() backoff.BackOff
	newKey     func() string
	timeout    time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport used for outbound calls.
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout of the default transport. It has no effect when
// WithHTTPClient supplies the transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger attaches the logger used for fail-soft warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetries sets the total number of attempts for idempotent reads.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retries = n
		}
	}
}

// WithMeterProvider overrides the provider used for client metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) {
		if mp != nil {
			c.fallbacks = newFallbackCounter(mp.Meter(instrumentationName))
		}
	}
}

// WithBackOff replaces the delay policy between read attempts.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *Client) {
		if fn != nil {
			c.newBackOff = fn
		}
	}
}

// WithIdempotencyKeys overrides the key generator used for enquiry submissions.
func WithIdempotencyKeys(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newKey = fn
		}
	}
}

// New constructs a Client rooted at baseURL for the given subscriber.
func New(baseURL, subscriber string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("backend: base URL is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("backend: parse base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("backend: base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    parsed,
		subscriber: strings.TrimSpace(subscriber),
		logger:     zap.NewNop(),
		tracer:     otel.Tracer(instrumentationName),
		fallbacks:  newFallbackCounter(otel.Meter(instrumentationName)),
		retries:    defaultRetries,
		newBackOff: defaultBackOff,
		newKey:     func() string { return ulid.Make().String() },
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

func newFallbackCounter(meter metric.Meter) metric.Int64Counter {
	counter, err := meter.Int64Counter("sparkle.backend.fallbacks",
		metric.WithDescription("Read requests answered with fallback data after a backend failure."),
	)
	if err != nil {
		return nil
	}
	return counter
}

func (c *Client) recordFallback(ctx context.Context, op string) {
	if c.fallbacks != nil {
		c.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	return b
}

// ListCategories returns the subscriber's category names.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "list_categories", &out, "categories"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// ListProducts returns all product summaries for the subscriber.
func (c *Client) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	var out []ProductSummary
	if err := c.getJSON(ctx, "list_products", &out, "products"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []ProductSummary{}
	}
	return out, nil
}

// GetProduct returns the detail record for a backend product id.
func (c *Client) GetProduct(ctx context.Context, id string) (ProductDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ProductDetail{}, errors.New("backend: product id is required")
	}
	var out ProductDetail
	if err := c.getJSON(ctx, "get_product", &out, "products", id); err != nil {
		return ProductDetail{}, err
	}
	out.normalize()
	return out, nil
}

// ListGallery returns the subscriber's gallery items.
func (c *Client) ListGallery(ctx context.Context) ([]GalleryItem, error) {
	var out []GalleryItem
	if err := c.getJSON(ctx, "list_gallery", &out, "gallery"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []GalleryItem{}
	}
	return out, nil
}

// CreateEnquiry posts a lead. The request is never retried; an Idempotency-Key is attached instead.
func (c *Client) CreateEnquiry(ctx context.Context, req EnquiryRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("backend: encode enquiry: %w", err)
	}
	endpoint, err := c.endpoint("enquiries")
	if err != nil {
		return err
	}

	ctx, span := c.startSpan(ctx, "create_enquiry", http.MethodPost, endpoint)
	defer span.End()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return endSpan(span, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(idempotencyHeader, c.newKey())

	_, err = c.do(httpReq)
	return endSpan(span, err)
}

// FetchCategories is the fail-soft form of ListCategories.
func (c *Client) FetchCategories(ctx context.Context) []string {
	categories, err := c.ListCategories(ctx)
	if err != nil {
		c.logger.Warn("categories unavailable, using default", zap.Error(err))
		c.recordFallback(ctx, "categories")
		return []string{DefaultCategory}
	}
	return categories
}

// FetchGallery is the fail-soft form of ListGallery.
func (c *Client) FetchGallery(ctx context.Context) []GalleryItem {
	items, err := c.ListGallery(ctx)
	if err != nil {
		c.logger.Warn("gallery unavailable, serving none", zap.Error(err))
		c.recordFallback(ctx, "gallery")
		return []GalleryItem{}
	}
	return items
}

// ProductLister loads the product summaries a detail lookup resolves against.
type ProductLister func(ctx context.Context) ([]ProductSummary, error)

// ProductGetter loads one product detail by backend id.
type ProductGetter func(ctx context.Context, id string) (ProductDetail, error)

// FetchProgramDetail resolves idOrSlug against the listed products, then loads the detail by backend id.
// The detail endpoint only accepts opaque ids, so a slug costs one list plus one detail request unless
// list is memoized. Errors wrap ErrProgramNotFound or ErrFetchFailed.
func FetchProgramDetail(ctx context.Context, list ProductLister, get ProductGetter, idOrSlug string) (ProductDetail, error) {
	products, err := list(ctx)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	summary, ok := FindProduct(products, idOrSlug)
	if !ok {
		return ProductDetail{}, fmt.Errorf("%w: %q", ErrProgramNotFound, idOrSlug)
	}
	detail, err := get(ctx, summary.ID)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return detail, nil
}

// FindProduct returns the first summary whose slug or id equals key.
func FindProduct(products []ProductSummary, key string) (ProductSummary, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return ProductSummary{}, false
	}
	for _, p := range products {
		if p.Slug == key || p.ID == key {
			return p, true
		}
	}
	return ProductSummary{}, false
}

func (c *Client) endpoint(parts ...string) (string, error) {
	elems := make([]string, 0, len(parts)+1)
	if c.subscriber != "" {
		elems = append(elems, c.subscriber)
	}
	elems = append(elems, parts...)
	return url.JoinPath(c.baseURL.String(), elems...)
}

func (c *Client) getJSON(ctx context.Context, op string, dest any, parts ...string) error {
	endpoint, err := c.endpoint(parts...)
	if err != nil {
		return err
	}

	ctx, span := c.startSpan(ctx, op, http.MethodGet, endpoint)
	defer span.End()

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		body, err = c.do(req)
		if err == nil {
			return nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.retries-1)), ctx)
	err = backoff.Retry(operation, policy)
	span.SetAttributes(attribute.Int("http.attempts", attempt))
	if err != nil {
		return endSpan(span, err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return endSpan(span, fmt.Errorf("backend: decode %s: %w", op, err))
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("backend: read %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       snippet(body, errorSnippetBytes),
		}
	}
	return body, nil
}

func (c *Client) startSpan(ctx context.Context, op, method, endpoint string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "backend."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", endpoint),
			attribute.String("sparkle.subscriber", c.subscriber),
		),
	)
}

func endSpan(span trace.Span, err error) error {
	if err == nil {
		return nil
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		span.SetAttributes(attribute.Int("http.response.status_code", statusErr.StatusCode))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
