// Package chat implements the course assistant: a bounded conversation
// with an OpenAI-compatible model, grounded on the course catalog.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/newus-learner-hub/hubgate/catalog"
	"github.com/newus-learner-hub/hubgate/client"
	"go.uber.org/zap"
)

var (
	ErrNoAPIKey   = errors.New("API Key not found")
	ErrEmptyReply = errors.New("assistant returned no reply")
)

const promptPreamble = `You are a helpful assistant for NEWUS Learner Hub.
Use the following course data to answer user questions.
If the answer is not found in the data, state that you do not have that information.
Format your responses using Markdown for better readability (use bold for key terms, lists for features, etc).

Data: `

// SystemPrompt renders the instructions and course data sent ahead of
// every conversation.
func SystemPrompt(courses []catalog.Summary) (string, error) {
	data, err := json.Marshal(courses)
	if err != nil {
		return "", err
	}

	return promptPreamble + string(data), nil
}

type Params struct {
	Config  Config
	Catalog *catalog.Catalog
	HTTP    client.Doer
	Sleep   client.Sleeper
	Log     *zap.Logger
}

type Assistant struct {
	config  Config
	prompt  string
	history *History
	client  *client.Client
	log     *zap.Logger
}

func NewAssistant(params Params) (*Assistant, error) {
	config := params.Config.withDefaults()

	log := params.Log
	if log == nil {
		log = zap.NewNop()
	}

	var summaries []catalog.Summary
	if params.Catalog != nil {
		summaries = params.Catalog.Summaries()
	}

	prompt, err := SystemPrompt(summaries)
	if err != nil {
		return nil, fmt.Errorf("building system prompt: %w", err)
	}

	clientConfig := client.DefaultConfig()
	clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	clientConfig.Timeout = config.Timeout

	return &Assistant{
		config:  config,
		prompt:  prompt,
		history: NewHistory(config.HistoryLimit),
		client: client.New(client.Params{
			Config: clientConfig,
			HTTP:   params.HTTP,
			Sleep:  params.Sleep,
			Log:    log.Named("client"),
		}),
		log: log,
	}, nil
}

func (a *Assistant) History() *History {
	return a.history
}

type completionMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

// Send asks the model about text, given the conversation so far. Both the
// question and the reply are recorded only when the call succeeds. The
// whole exchange, retries included, is bounded by the configured timeout.
func (a *Assistant) Send(ctx context.Context, text string) (Message, error) {
	if a.config.APIKey == "" {
		return Message{}, ErrNoAPIKey
	}

	question := NewMessage(RoleUser, text)

	body, err := json.Marshal(a.completionRequest(question))
	if err != nil {
		return Message{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+a.config.APIKey)
	if a.config.Referer != "" {
		header.Set("HTTP-Referer", a.config.Referer)
	}
	if a.config.Title != "" {
		header.Set("X-Title", a.config.Title)
	}

	envelope, err := a.client.Request(ctx, "/chat/completions", client.Options{
		Method: http.MethodPost,
		Header: header,
		Body:   body,
	})
	if err != nil {
		return Message{}, err
	}

	var res completionResponse
	if err := envelope.Decode(&res); err != nil {
		return Message{}, fmt.Errorf("decoding completion: %w", err)
	}

	if len(res.Choices) == 0 || strings.TrimSpace(res.Choices[0].Message.Content) == "" {
		return Message{}, ErrEmptyReply
	}

	reply := NewMessage(RoleAssistant, res.Choices[0].Message.Content)
	a.history.Append(question, reply)

	a.log.Debug("assistant replied",
		zap.String("model", a.config.Model),
		zap.Int("history", a.history.Len()),
	)

	return reply, nil
}

func (a *Assistant) completionRequest(question Message) completionRequest {
	past := a.history.Messages()

	messages := make([]completionMessage, 0, len(past)+2)
	messages = append(messages, completionMessage{Role: RoleSystem, Content: a.prompt})
	for _, m := range past {
		messages = append(messages, completionMessage{Role: m.Role, Content: m.Text})
	}
	messages = append(messages, completionMessage{Role: RoleUser, Content: question.Text})

	return completionRequest{Model: a.config.Model, Messages: messages}
}
