package assistant

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// ModelClient abstracts the generative model behind the assistant so the
// service can be tested without a live API key.
type ModelClient interface {
	GenerateReply(ctx context.Context, systemPrompt string, history []ChatMessage, message string) (string, error)
}

var _ ModelClient = (*GeminiClient)(nil)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) GenerateReply(ctx context.Context, systemPrompt string, history []ChatMessage, message string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
		MaxOutputTokens:   512,
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	chat, err := c.client.Chats.Create(ctx, c.model, config, contents)
	if err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}
	result, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("failed to send chat message: %w", err)
	}
	return strings.TrimSpace(result.Text()), nil
}
