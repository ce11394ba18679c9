package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/fsbridge/internal/shared/id"
	"github.com/GriffinCanCode/fsbridge/internal/types"
)

const (
	// HeaderRequestID carries the invocation id to the bridge
	HeaderRequestID = "X-Request-ID"

	userAgent = "fsbridge-client/" + types.Version
)

// Client calls a running bridge over HTTP. Requests go through a rate
// limiter, a circuit breaker and a retrying transport.
type Client struct {
	Resty   *resty.Client
	Limiter *rate.Limiter
	Breaker *resilience.Breaker
	mu      sync.RWMutex
}

type settings struct {
	timeout      time.Duration
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	rps          float64
	breaker      resilience.Settings
	logger       *logging.Logger
}

// Option configures a Client
type Option func(*settings)

// WithTimeout bounds a whole call, retries included
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithRetry configures transport retries for connection errors and 5xx/429 replies
func WithRetry(max int, minWait, maxWait time.Duration) Option {
	return func(s *settings) {
		s.retryMax = max
		s.retryWaitMin = minWait
		s.retryWaitMax = maxWait
	}
}

// WithRateLimit caps outgoing calls per second; zero or less disables the limit
func WithRateLimit(rps float64) Option {
	return func(s *settings) { s.rps = rps }
}

// WithBreaker overrides the circuit breaker settings
func WithBreaker(b resilience.Settings) Option {
	return func(s *settings) { s.breaker = b }
}

// WithLogger routes retry diagnostics to logger
func WithLogger(logger *logging.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// New creates a client for the bridge listening at baseURL
func New(baseURL string, opts ...Option) *Client {
	s := settings{
		timeout:      30 * time.Second,
		retryMax:     3,
		retryWaitMin: 200 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
		breaker: resilience.Settings{
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts resilience.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		},
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.breaker.IsSuccessful == nil {
		s.breaker.IsSuccessful = isHealthy
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = s.retryMax
	retryClient.RetryWaitMin = s.retryWaitMin
	retryClient.RetryWaitMax = s.retryWaitMax
	retryClient.Logger = nil
	if s.logger != nil {
		retryClient.Logger = leveledLogger{s.logger.Named("client").Sugar()}
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(s.timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.ConfigStd.Marshal).
		SetJSONUnmarshaler(sonic.ConfigStd.Unmarshal).
		SetTransport(&retryablehttp.RoundTripper{Client: retryClient})

	limiter := rate.NewLimiter(rate.Inf, 0)
	if s.rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.rps), max(1, int(s.rps)))
	}

	return &Client{
		Resty:   restyClient,
		Limiter: limiter,
		Breaker: resilience.New("bridge", s.breaker),
	}
}

// SetHeader adds a default header to every call
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Resty.SetHeader(key, value)
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.Breaker.State()
}

// Invoke calls command with args and decodes the data of a successful
// response into out. out may be nil for unit results.
func (c *Client) Invoke(ctx context.Context, command string, args interface{}, out interface{}) error {
	if args == nil {
		args = struct{}{}
	}
	return c.do(ctx, command, func(req *resty.Request) (*resty.Response, error) {
		return req.SetBody(args).Post("/invoke/{command}")
	}, out)
}

// Commands returns the services and commands the bridge exposes
func (c *Client) Commands(ctx context.Context) (*types.ListCommandsResponse, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var out types.ListCommandsResponse
	err = c.Breaker.Execute(func() error {
		resp, err := req.Get("/commands")
		if err != nil {
			return fmt.Errorf("list commands: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("list commands: unexpected status %s", resp.Status())
		}
		return sonic.ConfigStd.Unmarshal(resp.Body(), &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Resty.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, id.NewRequestID().String()), nil
}

func (c *Client) do(ctx context.Context, command string, send func(*resty.Request) (*resty.Response, error), out interface{}) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	req.SetPathParam("command", command)

	return c.Breaker.Execute(func() error {
		resp, err := send(req)
		if err != nil {
			return fmt.Errorf("%s: %w", command, err)
		}
		return decode(command, resp, out)
	})
}

type envelope struct {
	ID      string          `json:"id"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
	Kind    types.ErrorKind `json:"kind"`
}

func decode(command string, resp *resty.Response, out interface{}) error {
	var env envelope
	if err := sonic.ConfigStd.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("%s: unexpected %s response: %w", command, resp.Status(), err)
	}

	if !env.Success {
		cmdErr := &CommandError{Command: command, Kind: env.Kind, Status: resp.StatusCode()}
		if env.Error != nil {
			cmdErr.Message = *env.Error
		}
		return cmdErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := sonic.ConfigStd.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", command, err)
	}
	return nil
}

// isHealthy reports whether a call outcome shows a working bridge.
// A command error is a well-formed answer; only transport failures count.
func isHealthy(err error) bool {
	var cmdErr *CommandError
	return err == nil || errors.As(err, &cmdErr) || errors.Is(err, context.Canceled)
}

type leveledLogger struct {
	s interface {
		Errorw(string, ...interface{})
		Infow(string, ...interface{})
		Debugw(string, ...interface{})
		Warnw(string, ...interface{})
	}
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
