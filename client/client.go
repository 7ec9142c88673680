package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Doer executes a single HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options describes a single logical request. Body is sent verbatim and
// is expected to be serialized by the caller.
type Options struct {
	Method string
	Header http.Header
	Body   []byte
}

// Params defines the dependencies for the client.
type Params struct {
	// Config is the retry and endpoint configuration.
	Config Config

	// HTTP executes requests. Defaults to a new http.Client.
	HTTP Doer

	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep Sleeper

	// Log is the logger to use for the client.
	Log *zap.Logger
}

// Client issues JSON requests against the backend and retries transient
// failures with exponential backoff. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	config Config
	http   Doer
	sleep  Sleeper
	log    *zap.Logger
}

// New creates a new client.
func New(params Params) *Client {
	httpClient := params.HTTP
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	sleeper := params.Sleep
	if sleeper == nil {
		sleeper = sleep
	}

	log := params.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		config: params.Config.withDefaults(),
		http:   httpClient,
		sleep:  sleeper,
		log:    log,
	}
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// Request sends opts to BaseURL+endpoint. Transient failures (5xx, 408,
// 429 and transport errors) are retried up to MaxRetries times. When ctx
// is cancelled or its deadline passes, a timeout NetworkError is returned
// without further retries.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options) (*Envelope, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	url := c.config.BaseURL + endpoint

	log := c.log.With(
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	)

	for attempt := 0; ; attempt++ {
		envelope, err := c.attempt(ctx, method, url, opts)
		if err == nil {
			return envelope, nil
		}

		if ctx.Err() != nil {
			log.Debug("request aborted", zap.Int("attempt", attempt), zap.Error(err))
			return nil, &NetworkError{Err: ctx.Err(), Timeout: true}
		}

		if !isRetryable(err) || attempt >= c.config.MaxRetries {
			log.Warn("request failed", zap.Int("attempt", attempt), zap.Error(err))
			return nil, err
		}

		delay := Backoff(attempt, c.config.BaseDelay, c.config.MaxDelay)

		log.Debug("retrying request",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := c.sleep(ctx, delay); err != nil {
			return nil, &NetworkError{Err: err, Timeout: true}
		}
	}
}

// attempt performs a single round trip. The per-attempt timer is
// released before it returns.
func (c *Client) attempt(ctx context.Context, method, url string, opts Options) (*Envelope, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header = mergeHeaders(opts.Header)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, newNetworkError(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, newNetworkError(err)
	}

	payload, err := decodePayload(res.Header.Get("Content-Type"), data)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &HttpError{
			StatusCode: res.StatusCode,
			Message:    payload.errorMessage(res.StatusCode, reasonPhrase(res)),
		}
	}

	return &Envelope{StatusCode: res.StatusCode, Payload: payload}, nil
}

// mergeHeaders applies caller headers over the JSON content type default.
func mergeHeaders(header http.Header) http.Header {
	merged := make(http.Header, len(header)+1)
	merged.Set("Content-Type", "application/json")

	for k, v := range header {
		merged[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}

	return merged
}

func isRetryable(err error) bool {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}

	var netErr *NetworkError
	return errors.As(err, &netErr)
}
