package proxy

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/getsentry/sentry-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params defines the dependencies for the proxy.
type Params struct {
	fx.In

	Config Config

	// HTTP executes upstream requests. Defaults to a new http.Client,
	// which follows redirects.
	HTTP Doer `optional:"true"`

	Log *zap.Logger
}

// Proxy forwards requests to a fixed upstream and relays the response
// under its own CORS policy. It keeps no state between calls.
type Proxy struct {
	config Config
	http   Doer
	log    *zap.Logger
}

var _ Handler = (*Proxy)(nil)

// New creates a new proxy.
func New(params Params) *Proxy {
	httpClient := params.HTTP
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	config := params.Config
	if config.Upstream == "" {
		config.Upstream = DefaultUpstream
	}

	log := params.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Proxy{
		config: config,
		http:   httpClient,
		log:    log,
	}
}

// Handle answers preflight requests locally and forwards everything
// else. Failures are converted to a 500 response; Handle never fails.
func (p *Proxy) Handle(ctx context.Context, req Request) Response {
	log := p.log.With(
		zap.String("method", req.Method),
		zap.String("upstream", p.config.Upstream),
	)

	if req.Method == http.MethodOptions {
		log.Debug("answering preflight")
		return NewPreflightResponse(req.Header.Get("Origin"))
	}

	start := time.Now()

	res, err := p.forward(ctx, req)
	if err != nil {
		log.Error("failed to proxy request", zap.Error(err))
		p.report(ctx, err)
		return NewErrorResponse(err)
	}

	log.Debug("relayed response",
		zap.Int("status", res.StatusCode),
		zap.String("size", humanize.Bytes(uint64(len(res.Body)))),
		zap.Duration("latency", time.Since(start)),
	)

	return res
}

func (p *Proxy) forward(ctx context.Context, req Request) (Response, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Method != http.MethodGet && len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	outReq, err := http.NewRequestWithContext(ctx, req.Method, p.config.Upstream, body)
	if err != nil {
		return Response{}, err
	}

	outReq.Header = forwardHeaders(req.Header)

	upstreamRes, err := p.http.Do(outReq)
	if err != nil {
		return Response{}, err
	}
	defer upstreamRes.Body.Close()

	data, err := io.ReadAll(upstreamRes.Body)
	if err != nil {
		return Response{}, err
	}

	header := relayHeaders(upstreamRes.Header)
	setCORS(header, "*")

	return Response{
		StatusCode: upstreamRes.StatusCode,
		Header:     header,
		Body:       data,
	}, nil
}

func (p *Proxy) report(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.CaptureException(err)
}
