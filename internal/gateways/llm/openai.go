package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"subs_dashboard/internal/reminder"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAI calls any OpenAI compatible chat completion endpoint
type OpenAI struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

// NewOpenAI builds the client. An empty baseURL keeps the public API.
func NewOpenAI(apiKey, baseURL, model string, timeout time.Duration, log *slog.Logger) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	if model == "" {
		model = defaultOpenAIModel
	}
	if log == nil {
		log = slog.Default()
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log,
	}
}

func (o *OpenAI) GenerateReminder(ctx context.Context, req reminder.Request) (reminder.Response, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return reminder.Response{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return reminder.Response{}, ErrEmptyResponse
	}
	o.log.Debug("openai response",
		slog.String("model", resp.Model),
		slog.Int("total_tokens", resp.Usage.TotalTokens))

	return parseResponse(resp.Choices[0].Message.Content)
}
