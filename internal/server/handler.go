package server

import (
	"net/http"

	"go.uber.org/fx"
)

// HttpHandler is a route contributed to the "handlers" group. Pattern is
// a chi route pattern.
type HttpHandler struct {
	Pattern string
	Handler http.Handler
}

type HttpHandlerResult struct {
	fx.Out

	Handler *HttpHandler `group:"handlers"`
}

func AsHttpHandler(pattern string, handler http.Handler) HttpHandlerResult {
	return HttpHandlerResult{
		Handler: &HttpHandler{
			Pattern: pattern,
			Handler: handler,
		},
	}
}
