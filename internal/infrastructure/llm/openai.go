package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"symptomminder/internal/errs"
	"symptomminder/internal/ports"
)

type OpenAICompleter struct {
	client openai.Client
}

var _ ports.Completer = (*OpenAICompleter)(nil)

func NewOpenAICompleter(apiKey string) *OpenAICompleter {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &OpenAICompleter{client: openai.NewClient(opts...)}
}

func (c *OpenAICompleter) Complete(ctx context.Context, modelID string, maxTokens int, prompt string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(modelID),
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", errs.Wrapf(err, "openai completion %s", modelID)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
