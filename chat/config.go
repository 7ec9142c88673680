package chat

import "time"

const (
	DefaultBaseURL      = "https://openrouter.ai/api/v1"
	DefaultModel        = "meta-llama/llama-3.3-70b-instruct:free"
	DefaultHistoryLimit = 20
	DefaultTimeout      = 30 * time.Second
	DefaultReferer      = "https://www.newus.in/"
	DefaultTitle        = "NEWUS Learner Hub"
)

type Config struct {
	// BaseURL is the OpenAI-compatible API root
	BaseURL string `conf:"base_url"`

	// APIKey is the bearer token sent to the API. Chat is disabled without it.
	APIKey string `conf:"api_key"`

	// Model is the model identifier
	Model string `conf:"model"`

	// HistoryLimit is the number of messages kept in the conversation
	HistoryLimit int `conf:"history_limit"`

	// Timeout bounds a single send, retries included
	Timeout time.Duration `conf:"timeout"`

	// Referer and Title identify the site to OpenRouter
	Referer string `conf:"referer"`
	Title   string `conf:"title"`
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
