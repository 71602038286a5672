package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIOptions configures the chat-completion source.
type OpenAIOptions struct {
	Key          string
	Model        string
	BaseURL      string
	SystemPrompt string
	HTTPClient   *http.Client
}

// OpenAI answers prompts with a single chat completion: one system message, one user message.
type OpenAI struct {
	client *openai.Client
	key    string
	model  string
	system string
}

// NewOpenAI builds the source. An empty key is accepted; Respond then fails with
// KindMissingConfig without touching the network.
func NewOpenAI(opts OpenAIOptions) *OpenAI {
	cfg := openai.DefaultConfig(opts.Key)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	model := opts.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		key:    opts.Key,
		model:  model,
		system: opts.SystemPrompt,
	}
}

func (o *OpenAI) Name() string { return NameOpenAI }

func (o *OpenAI) Respond(ctx context.Context, p Prompt) (string, error) {
	const op = "chat_completion"
	if o.key == "" {
		return "", &Error{Source: NameOpenAI, Op: op, Kind: KindMissingConfig, Err: errors.New("OPENAI_KEY is not set")}
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if o.system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: o.system})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.Text})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		return "", classifyOpenAIError(op, err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Source: NameOpenAI, Op: op, Kind: KindShape, Err: errors.New("no choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(op string, err error) *Error {
	e := &Error{Source: NameOpenAI, Op: op, Kind: KindTransport, Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &apiErr):
		e.Status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		e.Status = reqErr.HTTPStatusCode
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		e.Kind = KindShape
	}
	return e
}
