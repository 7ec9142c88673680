package proxy

import (
	"net/http"
	"strings"
)

const (
	allowMethods = "GET,POST,PUT,DELETE,OPTIONS"
	allowHeaders = "Content-Type,Authorization"

	corsPrefix = "access-control-"
)

// setCORS installs the proxy's own permissive CORS policy on header.
func setCORS(header http.Header, origin string) {
	header.Set("Access-Control-Allow-Origin", origin)
	header.Set("Access-Control-Allow-Methods", allowMethods)
	header.Set("Access-Control-Allow-Headers", allowHeaders)
}

// forwardHeaders copies the inbound headers except Host.
func forwardHeaders(in http.Header) http.Header {
	out := make(http.Header, len(in))
	for k, v := range in {
		if strings.EqualFold(k, "Host") {
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}

// relayHeaders copies the upstream headers except any access-control-*
// header.
func relayHeaders(in http.Header) http.Header {
	out := make(http.Header, len(in)+3)
	for k, v := range in {
		if strings.HasPrefix(strings.ToLower(k), corsPrefix) {
			continue
		}
		for _, vv := range v {
			out.Add(k, vv)
		}
	}
	return out
}
