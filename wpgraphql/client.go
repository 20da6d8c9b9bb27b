// Package wpgraphql is a small client for the WPGraphQL endpoint of a headless
// WordPress install. Responses are cached through a responsecache.Backend and
// identical in-flight queries share a single HTTP round trip.
package wpgraphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/eringen/pubfront/responsecache"
)

const (
	maxResponseSize = 16 << 20 // 16MB
	defaultTimeout  = 15 * time.Second
)

// Request is a single GraphQL operation.
type Request struct {
	Query         string
	OperationName string
	Variables     any
}

// Config configures a Client.
type Config struct {
	Endpoint   string
	HTTPClient *http.Client // default: Timeout

	// Timeout bounds one shared round trip, independent of the callers
	// waiting on it. Default 15s.
	Timeout time.Duration

	Cache    responsecache.Backend // nil disables caching
	CacheTTL time.Duration

	// RequestsPerSecond throttles outbound requests; 0 disables throttling.
	RequestsPerSecond float64
	Burst             int

	Logger *zap.Logger
}

// Client sends queries to the CMS. It is safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
	cache    responsecache.Backend
	ttl      time.Duration
	timeout  time.Duration
	limiter  *rate.Limiter
	group    singleflight.Group
	log      *zap.Logger
}

// NewClient validates cfg and returns a ready Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("wpgraphql: endpoint is required")
	}
	c := &Client{
		endpoint: cfg.Endpoint,
		http:     cfg.HTTPClient,
		cache:    cfg.Cache,
		ttl:      cfg.CacheTTL,
		timeout:  cfg.Timeout,
		log:      cfg.Logger,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c, nil
}

type payload struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName,omitempty"`
	Variables     any    `json:"variables,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Query runs req and decodes the response "data" object into out.
func (c *Client) Query(ctx context.Context, req Request, out any) error {
	body, err := json.Marshal(payload{
		Query:         req.Query,
		OperationName: req.OperationName,
		Variables:     req.Variables,
	})
	if err != nil {
		return fmt.Errorf("wpgraphql: encode request: %w", err)
	}
	op := operationLabel(req.OperationName)
	key := responsecache.Key(body)

	if data, ok := c.lookup(ctx, op, key); ok {
		return decodeData(op, data, out)
	}

	// The round trip runs detached from ctx so one caller giving up does not
	// fail the others waiting on the same key.
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		data, err := c.fetch(fctx, op, body)
		if err != nil {
			return nil, err
		}
		c.store(fctx, op, key, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return fmt.Errorf("wpgraphql: %s: %w", op, ctx.Err())
	case res := <-ch:
		if res.Shared {
			sharedFetches.WithLabelValues(op).Inc()
		}
		if res.Err != nil {
			return res.Err
		}
		return decodeData(op, res.Val.(json.RawMessage), out)
	}
}

func (c *Client) lookup(ctx context.Context, op, key string) (json.RawMessage, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		cacheLookups.WithLabelValues(op, "hit").Inc()
		return data, true
	case errors.Is(err, responsecache.ErrMiss):
		cacheLookups.WithLabelValues(op, "miss").Inc()
	default:
		cacheLookups.WithLabelValues(op, "error").Inc()
		c.log.Warn("response cache read failed", zap.String("operation", op), zap.Error(err))
	}
	return nil, false
}

type ttlKey struct{}

// WithCacheTTL overrides the cache TTL for responses fetched with ctx.
// A ttl <= 0 stores them without expiry.
func WithCacheTTL(ctx context.Context, ttl time.Duration) context.Context {
	return context.WithValue(ctx, ttlKey{}, ttl)
}

func (c *Client) cacheTTL(ctx context.Context) time.Duration {
	if ttl, ok := ctx.Value(ttlKey{}).(time.Duration); ok {
		return ttl
	}
	return c.ttl
}

func (c *Client) store(ctx context.Context, op, key string, data json.RawMessage) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL(ctx)); err != nil {
		c.log.Warn("response cache write failed", zap.String("operation", op), zap.Error(err))
	}
}

func (c *Client) fetch(ctx context.Context, op string, body []byte) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Operation: op, NetworkError: err.Error(), err: err}
		}
	}

	start := time.Now()
	data, err := c.roundTrip(ctx, op, body)
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	status := "ok"
	if err != nil {
		status = "error"
		c.log.Warn("graphql request failed", zap.String("operation", op), zap.Error(err))
	} else {
		c.log.Debug("graphql request", zap.String("operation", op), zap.Duration("latency", time.Since(start)))
	}
	requestsTotal.WithLabelValues(op, status).Inc()
	return data, err
}

func (c *Client) roundTrip(ctx context.Context, op string, body []byte) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Operation: op, NetworkError: err.Error(), err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &Error{Operation: op, NetworkError: err.Error(), err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &Error{Operation: op, StatusCode: resp.StatusCode, NetworkError: err.Error(), err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &Error{Operation: op, StatusCode: resp.StatusCode}
		}
		return nil, &Error{Operation: op, StatusCode: resp.StatusCode, NetworkError: "decode response: " + err.Error(), err: err}
	}
	if len(env.Errors) > 0 {
		return nil, &Error{Operation: op, StatusCode: resp.StatusCode, GraphQLErrors: env.Errors}
	}
	if resp.StatusCode >= 300 {
		return nil, &Error{Operation: op, StatusCode: resp.StatusCode}
	}
	return env.Data, nil
}

// Purge drops every cached response.
func (c *Client) Purge(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Purge(ctx)
}

func decodeData(op string, data json.RawMessage, out any) error {
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("wpgraphql: %s: decode data: %w", op, err)
	}
	return nil
}

func operationLabel(name string) string {
	if name == "" {
		return "anonymous"
	}
	return name
}
