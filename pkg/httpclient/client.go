package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/samvad-hq/samvad-dashboard/pkg/contracts"
)

const (
	// DefaultBaseAddress is used when New is given an empty base address.
	DefaultBaseAddress = "http://localhost:3000"
	// DefaultTransportTimeout bounds the default resty transport.
	DefaultTransportTimeout = 30 * time.Second
)

// Client is the dashboard's single outbound HTTP access point.
// It holds no per-call state and may be shared by concurrent callers.
type Client struct {
	baseAddress string
	transport   Transport
	log         Logger
}

// Option customizes a Client at construction.
type Option func(*Client)

// WithTransport replaces the default resty transport.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithLogger attaches a logger for debug-level request tracing.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		c.log = ensureLogger(log)
	}
}

// New returns a client bound to baseAddress. It performs no I/O.
func New(baseAddress string, opts ...Option) *Client {
	if baseAddress == "" {
		baseAddress = DefaultBaseAddress
	}
	c := &Client{
		baseAddress: baseAddress,
		log:         noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewRestyTransport(DefaultTransportTimeout)
	}
	return c
}

// BaseAddress returns the prefix prepended to every endpoint.
func (c *Client) BaseAddress() string {
	if c == nil {
		return ""
	}
	return c.baseAddress
}

// SendRequest performs exactly one exchange for req and returns its payload as TResponse.
// Every failure comes back as *RequestError.
func SendRequest[TResponse, TBody any](ctx context.Context, c *Client, req contracts.Request[TBody]) (TResponse, error) {
	var zero TResponse
	if c == nil || c.transport == nil {
		return zero, normalizeError(errors.New("http client is not initialized"))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ex := Exchange{
		Method:  req.Method,
		Headers: req.Headers,
		Data:    req.Body,
		URL:     c.baseAddress + req.Endpoint,
		Params:  req.Params,
	}
	c.log.DebugObj("sending http request", "http_request", map[string]any{
		"method": string(ex.Method),
		"url":    ex.URL,
	})

	res, err := c.transport.Exchange(ctx, ex)
	if err != nil {
		return zero, c.fail(ex, err)
	}

	var payload any
	if res != nil {
		payload = res.Data
	}
	out, err := shape[TResponse](payload)
	if err != nil {
		return zero, c.fail(ex, err)
	}
	return out, nil
}

func (c *Client) fail(ex Exchange, err error) error {
	reqErr := normalizeError(err)
	c.log.DebugObj("http request failed", "http_failure", map[string]any{
		"method": string(ex.Method),
		"url":    ex.URL,
		"kind":   reqErr.Kind.String(),
		"status": reqErr.Status,
	})
	return reqErr
}

// shape hands back payload unchanged when it already is a T; otherwise it decodes the
// generic value into T using json field tags.
func shape[T any](payload any) (T, error) {
	if v, ok := payload.(T); ok {
		return v, nil
	}
	var out T
	if payload == nil {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return out, fmt.Errorf("build payload decoder: %w", err)
	}
	if err := dec.Decode(payload); err != nil {
		return out, fmt.Errorf("decode payload into %T: %w", out, err)
	}
	return out, nil
}
