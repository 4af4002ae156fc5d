// Package responder provides language-model backends for general queries.
package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest

// Anthropic answers queries with the Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropic creates a responder. baseURL is optional. The SDK's own retry
// loop is disabled: one attempt per query.
func NewAnthropic(apiKey, model, baseURL string) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = string(DefaultAnthropicModel)
	}
	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(model),
		maxTokens: 1024,
	}
}

// Respond sends text as a single user message and joins the text blocks of the reply.
func (a *Anthropic) Respond(ctx context.Context, text string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling anthropic: %w", err)
	}

	var parts []string
	for _, b := range msg.Content {
		if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
