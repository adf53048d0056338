package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/tmc/langchaingo/llms"
)

type fakeLLM struct {
	llms.Model

	resp    *llms.ContentResponse
	err     error
	panics  bool
	msgs    []llms.MessageContent
	options llms.CallOptions
}

func (f *fakeLLM) GenerateContent(_ context.Context, msgs []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.panics {
		panic("boom")
	}
	f.msgs = msgs
	for _, o := range opts {
		o(&f.options)
	}
	return f.resp, f.err
}

func reply(s string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: s}}}
}

func textOf(m llms.MessageContent) string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if tc, ok := p.(llms.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func TestSummarizeRequest(t *testing.T) {
	llm := &fakeLLM{resp: reply("Short summary.")}
	s := New(llm, WithModel("llama3-8b-8192"))

	res := s.Summarize(context.Background(), "full\ntext")
	if !res.OK() || res.Text != "Short summary." {
		t.Fatalf("result = %+v", res)
	}

	if len(llm.msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(llm.msgs))
	}
	if llm.msgs[0].Role != llms.ChatMessageTypeSystem || textOf(llm.msgs[0]) != "You are a helpful assistant that summarizes text." {
		t.Errorf("system message = %+v", llm.msgs[0])
	}
	if llm.msgs[1].Role != llms.ChatMessageTypeHuman || textOf(llm.msgs[1]) != "Please summarize the following text:\n\nfull\ntext" {
		t.Errorf("user message = %q", textOf(llm.msgs[1]))
	}

	o := llm.options
	if o.Temperature != 0.7 || o.TopP != 1.0 || o.MaxTokens != 500 || o.Model != "llama3-8b-8192" {
		t.Errorf("options = temp %v top_p %v max %v model %q", o.Temperature, o.TopP, o.MaxTokens, o.Model)
	}
}

func TestSummarizeSendsTextUntruncated(t *testing.T) {
	llm := &fakeLLM{resp: reply("ok")}
	long := strings.Repeat("word ", 50000)
	New(llm).Summarize(context.Background(), long)
	if !strings.HasSuffix(textOf(llm.msgs[1]), long) {
		t.Fatal("prompt text was altered")
	}
}

func TestSummarizeFailures(t *testing.T) {
	tests := []struct {
		name string
		llm  *fakeLLM
		want string
	}{
		{"provider error", &fakeLLM{err: errors.New("401 invalid api key")}, "401 invalid api key"},
		{"no choices", &fakeLLM{resp: &llms.ContentResponse{}}, errEmptyCompletion.Error()},
		{"nil response", &fakeLLM{}, errEmptyCompletion.Error()},
		{"blank completion", &fakeLLM{resp: reply(" \n\n ")}, errEmptyCompletion.Error()},
		{"panic", &fakeLLM{panics: true}, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(tt.llm).Summarize(context.Background(), "text")
			if res.OK() {
				t.Fatalf("expected failure, got %+v", res)
			}
			d := res.Display()
			if !strings.HasPrefix(d, ErrorPrefix) || !strings.Contains(d, tt.want) {
				t.Fatalf("Display() = %q", d)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize("\r\n Summary:\r\n\r\n\r\n\r\n- point\r")
	if want := "Summary:\n\n- point"; got != want {
		t.Fatalf("Sanitize() = %q, want %q", got, want)
	}
}

func TestMock(t *testing.T) {
	res := New(Mock{}).Summarize(context.Background(), "one two\nthree")
	if !res.OK() {
		t.Fatalf("mock failed: %v", res.Err)
	}
	if want := "Mock summary: the document has 3 words in 2 lines (13 characters)."; res.Text != want {
		t.Fatalf("text = %q, want %q", res.Text, want)
	}
}

func TestNewModel(t *testing.T) {
	log, _ := logtest.NewNullLogger()

	if _, ok := NewModel(ProviderConfig{Provider: ProviderMock}, log).(Mock); !ok {
		t.Error("mock provider did not return Mock")
	}

	m := NewModel(ProviderConfig{Provider: "carrier-pigeon"}, log)
	res := New(m).Summarize(context.Background(), "text")
	if res.OK() || !strings.Contains(res.Err.Error(), "unsupported LLM provider") {
		t.Errorf("unknown provider result = %+v", res)
	}
}

func TestNewModelMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	log, hook := logtest.NewNullLogger()

	m := NewModel(ProviderConfig{Provider: ProviderGroq}, log)
	if _, ok := m.(unavailable); !ok {
		t.Fatalf("model = %T, want unavailable", m)
	}
	if res := New(m).Summarize(context.Background(), "text"); res.OK() {
		t.Fatal("expected failure without credentials")
	}
	if e := hook.LastEntry(); e == nil || e.Message == "" {
		t.Fatal("missing warning log")
	}
}

func TestModelName(t *testing.T) {
	tests := map[string]string{
		ProviderGroq:   "llama3-8b-8192",
		"":             "llama3-8b-8192",
		ProviderOpenAI: "gpt-4o-mini",
		ProviderOllama: "llama3:instruct",
	}
	for p, want := range tests {
		if got := (ProviderConfig{Provider: p}).ModelName(); got != want {
			t.Errorf("ModelName(%q) = %q, want %q", p, got, want)
		}
	}
	if got := (ProviderConfig{Provider: ProviderGroq, Model: "mixtral"}).ModelName(); got != "mixtral" {
		t.Errorf("explicit model ignored: %q", got)
	}
}
