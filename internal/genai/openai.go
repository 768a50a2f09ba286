package genai

import (
	"context"
	stderrors "errors"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI calls an OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client openai.Client
	model  string
}

var _ Model = (*OpenAI)(nil)

// NewOpenAI creates a chat-completions client. baseURL may be empty.
// SDK retries are disabled; a failed call is reported once.
func NewOpenAI(apiKey, model, baseURL string, httpClient *http.Client) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAI{client: openai.NewClient(opts...), model: model}
}

// Name implements Model.
func (o *OpenAI) Name() string { return o.model }

// Complete implements Model with a single user message.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (*Response, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		var apiErr *openai.Error
		if stderrors.As(err, &apiErr) && apiErr.StatusCode > 0 {
			return &Response{
				StatusCode: apiErr.StatusCode,
				Raw:        rawJSON([]byte(apiErr.RawJSON())),
			}, nil
		}
		return nil, err
	}

	out := &Response{
		Success:    true,
		StatusCode: http.StatusOK,
		Raw:        rawJSON([]byte(resp.RawJSON())),
		Usage: Usage{
			PromptTokens: int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}
	if len(resp.Choices) > 0 {
		out.Parts = []string{resp.Choices[0].Message.Content}
	}
	return out, nil
}
