package proxy

import (
	"context"
	"net/http"
)

// Request represents an inbound request.
type Request struct {
	Method string
	Header http.Header
	Body   []byte
}

// Response represents an outbound response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Handler is the interface for handling proxied requests.
type Handler interface {
	Handle(ctx context.Context, request Request) Response
}

// Doer executes a single HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
