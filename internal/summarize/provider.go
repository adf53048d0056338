package summarize

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderMock   = "mock"

	groqBaseURL       = "https://api.groq.com/openai/v1"
	defaultGroqModel  = "llama3-8b-8192"
	defaultOpenAI     = "gpt-4o-mini"
	defaultOllama     = "llama3:instruct"
	defaultOllamaURL  = "http://localhost:11434"
	defaultLLMTimeout = 90 * time.Second
)

type ProviderConfig struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKey    string
	OllamaURL string
	Timeout   time.Duration
}

// ModelName returns the model identifier the provider will be asked for.
func (c ProviderConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	switch strings.ToLower(c.Provider) {
	case ProviderOpenAI:
		return defaultOpenAI
	case ProviderOllama:
		return defaultOllama
	case ProviderMock:
		return "mock"
	default:
		return defaultGroqModel
	}
}

// NewModel builds the completion client for cfg. A provider that cannot be
// constructed, for example because its API key is missing, still yields a
// model: every call on it fails with the construction error.
func NewModel(cfg ProviderConfig, log logrus.FieldLogger) llms.Model {
	logger := log.WithFields(logrus.Fields{
		"provider": cfg.Provider,
		"model":    cfg.ModelName(),
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	var (
		model llms.Model
		err   error
	)
	switch strings.ToLower(cfg.Provider) {
	case ProviderGroq, "":
		base := cfg.BaseURL
		if base == "" {
			base = groqBaseURL
		}
		model, err = newOpenAICompatible(cfg, base, httpClient)
	case ProviderOpenAI:
		model, err = newOpenAICompatible(cfg, cfg.BaseURL, httpClient)
	case ProviderOllama:
		u := cfg.OllamaURL
		if u == "" {
			u = defaultOllamaURL
		}
		model, err = ollama.New(
			ollama.WithServerURL(u),
			ollama.WithModel(cfg.ModelName()),
			ollama.WithHTTPClient(httpClient),
		)
	case ProviderMock:
		model = Mock{}
	default:
		err = fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	if err != nil {
		logger.WithError(err).Warn("LLM client unavailable; summaries will report the error")
		return unavailable{err: err}
	}
	logger.Info("LLM client ready")
	return model
}

func newOpenAICompatible(cfg ProviderConfig, baseURL string, hc *http.Client) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.ModelName()),
		openai.WithHTTPClient(hc),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	return openai.New(opts...)
}

// unavailable fails every call with the error that prevented construction.
type unavailable struct{ err error }

func (u unavailable) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	return nil, u.err
}

func (u unavailable) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return "", u.err
}
