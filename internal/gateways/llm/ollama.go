package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"subs_dashboard/internal/reminder"
)

const defaultOllamaModel = "llama3.2"

type ollamaRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Ollama calls a local Ollama server through /api/generate
type Ollama struct {
	baseURL    string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

func NewOllama(baseURL, model string, timeout time.Duration, log *slog.Logger) *Ollama {
	if model == "" {
		model = defaultOllamaModel
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ollama{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (o *Ollama) GenerateReminder(ctx context.Context, req reminder.Request) (reminder.Response, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  o.model,
		System: systemPrompt,
		Prompt: BuildPrompt(req),
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return reminder.Response{}, fmt.Errorf("encode ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return reminder.Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return reminder.Response{}, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return reminder.Response{}, fmt.Errorf("ollama API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return reminder.Response{}, fmt.Errorf("decode ollama response: %w", err)
	}
	o.log.Debug("ollama response",
		slog.String("model", out.Model),
		slog.Int("length", len(out.Response)))

	return parseResponse(out.Response)
}
