package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	defaultModel   = "claude-3-haiku-20240307"
	maxTokens      = 1024
)

// ErrUnparseable indicates the model did not answer with the requested JSON document.
var ErrUnparseable = errors.New("ai response is not valid json")

// Client defines the interface for AI text processing.
type Client interface {
	ExtractAsset(ctx context.Context, input string, rooms []string) (AssetDraft, error)
	Reply(ctx context.Context, input string) (string, error)
}

// AssetDraft holds the fields the model extracted from a registration request.
type AssetDraft struct {
	AssetNumber *string `json:"numero_patrimonio"`
	Name        string  `json:"nome"`
	Room        string  `json:"sala"`
	Quantity    int     `json:"quantidade"`
	Value       float64 `json:"valor"`
}

type anthropicClient struct {
	httpClient *resty.Client
	model      string
}

// Option customizes the client.
type Option func(*anthropicClient)

// WithBaseURL points the client at another API host.
func WithBaseURL(url string) Option {
	return func(c *anthropicClient) { c.httpClient.SetBaseURL(strings.TrimSuffix(url, "/")) }
}

// WithModel selects the model used for every call.
func WithModel(model string) Option {
	return func(c *anthropicClient) {
		if model != "" {
			c.model = model
		}
	}
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string, opts ...Option) Client {
	client := resty.New().
		SetBaseURL(defaultBaseURL).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	c := &anthropicClient{httpClient: client, model: defaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

// Message is one entry of the conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

const extractPrompt = `Você é um assistente de cadastro de patrimônio.
Analise a mensagem do usuário e extraia os dados para formato JSON.

Regras:
- Retorne APENAS o JSON válido.
- Campos obrigatórios: nome (string), sala (string), quantidade (int), valor (float).
- Campo opcional: numero_patrimonio (string). Se o usuário disser (ex: "código X", "patrimônio Y"), extraia. Se não, deixe null.
- O valor deve ser numérico (ex: 1200.50), sem R$.
- A sala deve ser exatamente uma destas: %s.`

const chatPrompt = `Você é um assistente útil para o sistema de gestão de patrimônio da LAMIC.
Responda de forma amigável e útil à mensagem do usuário.
Mantenha a resposta concisa.`

// ExtractAsset asks the model to turn a free-text registration request into an AssetDraft.
func (c *anthropicClient) ExtractAsset(ctx context.Context, input string, rooms []string) (AssetDraft, error) {
	system := fmt.Sprintf(extractPrompt, strings.Join(rooms, ", "))

	// Prefill the assistant response to force JSON.
	text, err := c.complete(ctx, system, []Message{
		{Role: "user", Content: input},
		{Role: "assistant", Content: "{"},
	})
	if err != nil {
		return AssetDraft{}, err
	}

	// The prefilled brace is not echoed back unless the model restarted the object.
	body := cleanJSON(text)
	if !strings.HasPrefix(body, "{") {
		body = "{" + body
	}

	var draft AssetDraft
	if err := json.Unmarshal([]byte(body), &draft); err != nil {
		return AssetDraft{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return draft, nil
}

// Reply produces a plain conversational answer.
func (c *anthropicClient) Reply(ctx context.Context, input string) (string, error) {
	text, err := c.complete(ctx, chatPrompt, []Message{{Role: "user", Content: input}})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *anthropicClient) complete(ctx context.Context, system string, messages []Message) (string, error) {
	reqBody := messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  messages,
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post("/v1/messages")

	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", fmt.Errorf("empty response from ai")
	}

	return respBody.Content[0].Text, nil
}

// cleanJSON strips markdown code fences the model sometimes wraps JSON in.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
