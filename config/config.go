package config

import (
	"github.com/newus-learner-hub/hubgate/chat"
	"github.com/newus-learner-hub/hubgate/client"
	"github.com/newus-learner-hub/hubgate/proxy"
	"github.com/newus-learner-hub/hubgate/util/conf"
)

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// Proxy is the course-inquiry proxy configuration
	Proxy proxy.Config `conf:"proxy"`

	// Client is the lead backend client configuration
	Client client.Config `conf:"client"`

	// Chat is the course assistant configuration
	Chat chat.Config `conf:"chat"`
}

// DefaultConfig holds the defaults loaded before any other source.
var DefaultConfig = merge(
	conf.MergeDefaults("proxy", conf.DefaultConfig{
		"upstream": proxy.DefaultUpstream,
		"path":     proxy.DefaultMountPath,
		"timeout":  proxy.DefaultTimeout.String(),
	}),
	conf.MergeDefaults("client", conf.DefaultConfig{
		"base_url":    client.DefaultBaseURL,
		"max_retries": client.DefaultMaxRetries,
		"base_delay":  client.DefaultBaseDelay.String(),
		"max_delay":   client.DefaultMaxDelay.String(),
		"timeout":     client.DefaultTimeout.String(),
	}),
	conf.MergeDefaults("chat", conf.DefaultConfig{
		"base_url":      chat.DefaultBaseURL,
		"model":         chat.DefaultModel,
		"history_limit": chat.DefaultHistoryLimit,
		"timeout":       chat.DefaultTimeout.String(),
		"referer":       chat.DefaultReferer,
		"title":         chat.DefaultTitle,
	}),
)

func merge(defaults ...conf.DefaultConfig) conf.DefaultConfig {
	merged := make(conf.DefaultConfig)
	for _, d := range defaults {
		for k, v := range d {
			merged[k] = v
		}
	}
	return merged
}
