// Package summarize asks a language model for a short summary of extracted
// text. Failures never escape as errors: Summarize returns a Result that is
// either a summary or a failure message.
package summarize

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

const (
	systemPrompt = "You are a helpful assistant that summarizes text."
	userPrompt   = "Please summarize the following text:\n\n%s"

	// ErrorPrefix starts the text shown in place of a summary when the call fails.
	ErrorPrefix = "An error occurred during summarization: "
)

// Generation parameters sent with every request.
const (
	Temperature = 0.7
	TopP        = 1.0
	MaxTokens   = 500
)

var errEmptyCompletion = errors.New("model returned no completion")

// Result is Success(Text) when Err is nil, Failure(Err) otherwise.
type Result struct {
	Text string
	Err  error
}

func (r Result) OK() bool { return r.Err == nil }

// Display is the text to show and offer for download.
func (r Result) Display() string {
	if r.OK() {
		return r.Text
	}
	return ErrorPrefix + r.Err.Error()
}

type Summarizer struct {
	llm   llms.Model
	model string
}

type Option func(*Summarizer)

// WithModel sets the model identifier sent with each request. Providers that
// were constructed with a model may leave it empty.
func WithModel(model string) Option {
	return func(s *Summarizer) { s.model = model }
}

func New(llm llms.Model, opts ...Option) *Summarizer {
	s := &Summarizer{llm: llm}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Summarize sends text in full, without chunking or truncation, and waits for
// the whole completion.
func (s *Summarizer) Summarize(ctx context.Context, text string) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{Err: fmt.Errorf("model client panicked: %v", p)}
		}
	}()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf(userPrompt, text)),
	}
	opts := []llms.CallOption{
		llms.WithTemperature(Temperature),
		llms.WithTopP(TopP),
		llms.WithMaxTokens(MaxTokens),
	}
	if s.model != "" {
		opts = append(opts, llms.WithModel(s.model))
	}

	resp, err := s.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return Result{Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return Result{Err: errEmptyCompletion}
	}
	out := Sanitize(resp.Choices[0].Content)
	if out == "" {
		return Result{Err: errEmptyCompletion}
	}
	return Result{Text: out}
}
