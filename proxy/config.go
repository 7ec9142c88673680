package proxy

import "time"

const (
	DefaultUpstream  = "https://newusbackend.vercel.app/course-inquiry"
	DefaultMountPath = "/api/course-inquiry-proxy"
	DefaultTimeout   = 30 * time.Second
)

type Config struct {
	// Upstream is the single URL every request is forwarded to.
	Upstream string `conf:"upstream"`

	// Path is the route the proxy is mounted on.
	Path string `conf:"path"`

	// Timeout bounds the upstream round trip, including the body read.
	Timeout time.Duration `conf:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		Upstream: DefaultUpstream,
		Path:     DefaultMountPath,
		Timeout:  DefaultTimeout,
	}
}
