package handler

import (
	"io"
	"net/http"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/newus-learner-hub/hubgate/proxy"
)

type ProxyHandlerParams struct {
	fx.In

	Handler proxy.Handler
	Log     *zap.Logger
}

func NewProxyHandler(params ProxyHandlerParams) *ProxyHandler {
	return &ProxyHandler{
		handler: params.Handler,
		log:     params.Log,
	}
}

// ProxyHandler adapts a proxy.Handler to net/http.
type ProxyHandler struct {
	handler proxy.Handler
	log     *zap.Logger
}

func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)

	method := strings.ToUpper(r.Method)

	var response proxy.Response

	// GET requests carry no body worth forwarding
	body, err := readBody(method, r)
	if err != nil {
		log.Debug("failed to read body", zap.Error(err))
		response = proxy.NewErrorResponse(err)
	} else {
		response = h.handler.Handle(r.Context(), proxy.Request{
			Method: method,
			Header: r.Header,
			Body:   body,
		})
	}

	writeResponse(w, response, log)
}

func readBody(method string, r *http.Request) ([]byte, error) {
	if method == http.MethodGet || method == http.MethodOptions || r.Body == nil {
		return nil, nil
	}

	return io.ReadAll(r.Body)
}

func writeResponse(w http.ResponseWriter, response proxy.Response, log *zap.Logger) {
	// Map response headers
	for k, v := range response.Header {
		for _, vv := range v {
			w.Header().Add(k, vv)
		}
	}

	// Write response headers and status code
	w.WriteHeader(response.StatusCode)

	// Write response body
	if _, err := w.Write(response.Body); err != nil {
		log.Debug("failed to write response", zap.Error(err))
	}
}
