package handler

import (
	"net/http"

	"github.com/newus-learner-hub/hubgate/internal/server"
	"github.com/newus-learner-hub/hubgate/proxy"
)

func NewProxyRoute(config proxy.Config, handler *ProxyHandler) server.HttpHandlerResult {
	path := config.Path
	if path == "" {
		path = proxy.DefaultMountPath
	}

	return server.AsHttpHandler(path, handler)
}

func NewHealthRoute() server.HttpHandlerResult {
	return server.AsHttpHandler("/health", http.HandlerFunc(HealthHandler))
}

func NewGoneRoute() server.HttpHandlerResult {
	return server.AsHttpHandler("/api", http.HandlerFunc(GoneHandler))
}
