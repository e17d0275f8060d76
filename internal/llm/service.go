package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/models"
)

// Upstream requests are bounded server side; the chat client itself never times out.
const replyTimeout = 120 * time.Second

type Service struct {
	llm          llms.Model
	defaultModel string
	logger       *zap.Logger
}

// Options configure the OpenAI-compatible upstream (OpenRouter by default).
type Options struct {
	BaseURL      string
	Token        string
	DefaultModel string
	// SiteURL and AppTitle are sent as HTTP-Referer and X-Title, which
	// OpenRouter uses for attribution.
	SiteURL  string
	AppTitle string
}

func New(opts Options, logger *zap.Logger) (*Service, error) {
	httpClient := &http.Client{
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": opts.SiteURL,
				"X-Title":      opts.AppTitle,
			},
		},
	}
	llm, err := openai.New(
		openai.WithToken(opts.Token),
		openai.WithBaseURL(opts.BaseURL),
		openai.WithModel(opts.DefaultModel),
		openai.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, err
	}
	return NewWithModel(llm, opts.DefaultModel, logger), nil
}

// NewWithModel wraps an existing langchaingo model.
func NewWithModel(model llms.Model, defaultModel string, logger *zap.Logger) *Service {
	return &Service{llm: model, defaultModel: defaultModel, logger: logger}
}

func (s *Service) DefaultModel() string {
	return s.defaultModel
}

// Reply asks the chat's model for the next assistant message given the full
// history, which must already include the newest user message.
func (s *Service) Reply(ctx context.Context, chat models.Chat, history []models.Message) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+1)
	if chat.SystemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, chat.SystemPrompt))
	}
	for _, m := range history {
		messages = append(messages, llms.TextParts(messageType(m.Role), m.Content))
	}

	model := chat.Model
	if model == "" {
		model = s.defaultModel
	}

	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.llm.GenerateContent(ctx, messages,
		llms.WithModel(model),
		llms.WithTemperature(chat.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}

	s.logger.Debug("Generated reply",
		zap.Int64("chatID", chat.ID),
		zap.String("model", model),
		zap.Int("history", len(history)),
		zap.Duration("elapsed", time.Since(start)))

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	default:
		return llms.ChatMessageTypeHuman
	}
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}
