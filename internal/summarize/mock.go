package summarize

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/llms"
)

// Mock is an offline llms.Model for running the service without a provider.
// It describes the prompt's text instead of summarizing it.
type Mock struct{}

func (Mock) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	var text string
	for _, m := range messages {
		if m.Role != llms.ChatMessageTypeHuman {
			continue
		}
		for _, p := range m.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				text += tc.Text
			}
		}
	}
	text = strings.TrimPrefix(text, fmt.Sprintf(userPrompt, ""))
	summary := fmt.Sprintf("Mock summary: the document has %d words in %d lines (%d characters).",
		len(strings.Fields(text)), strings.Count(text, "\n")+1, utf8.RuneCountInString(text))
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: summary, StopReason: "stop"}}}, nil
}

func (m Mock) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}
