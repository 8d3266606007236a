// Package llm adapts vendor SDKs to the prompt-in/text-out Completer port.
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"symptomminder/internal/errs"
	"symptomminder/internal/ports"
)

type AnthropicCompleter struct {
	client anthropic.Client
}

var _ ports.Completer = (*AnthropicCompleter)(nil)

func NewAnthropicCompleter(apiKey string) *AnthropicCompleter {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &AnthropicCompleter{client: anthropic.NewClient(opts...)}
}

func (c *AnthropicCompleter) Complete(ctx context.Context, modelID string, maxTokens int, prompt string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", errs.Wrapf(err, "anthropic completion %s", modelID)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
