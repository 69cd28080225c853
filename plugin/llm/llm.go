// Package llm abstracts the text-generation providers behind one interface.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// Service is the text-generation interface used by the insight layer.
type Service interface {
	// Complete performs a synchronous completion over the messages.
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string // gemini or openai
	APIKey   string
	BaseURL  string // openai-compatible endpoints only
	Model    string

	MaxTokens   int
	Temperature float32
}

// NewService creates a Service for the configured provider.
func NewService(ctx context.Context, cfg *Config) (Service, error) {
	switch cfg.Provider {
	case "gemini":
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, err
		}
		return &geminiService{client: client, cfg: cfg}, nil

	case "openai":
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
		return &openaiService{client: openai.NewClientWithConfig(clientConfig), cfg: cfg}, nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

type geminiService struct {
	client *genai.Client
	cfg    *Config
}

func (s *geminiService) Complete(ctx context.Context, messages []Message) (string, error) {
	config := &genai.GenerateContentConfig{}
	if s.cfg.MaxTokens > 0 {
		config.MaxOutputTokens = int32(s.cfg.MaxTokens)
	}
	if s.cfg.Temperature > 0 {
		config.Temperature = genai.Ptr(s.cfg.Temperature)
	}

	contents := []*genai.Content{}
	for _, m := range messages {
		switch m.Role {
		case "system":
			config.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.cfg.Model, contents, config)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response")
	}
	return text, nil
}

type openaiService struct {
	client *openai.Client
	cfg    *Config
}

func (s *openaiService) Complete(ctx context.Context, messages []Message) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case "system":
			role = openai.ChatMessageRoleSystem
		case "assistant":
			role = openai.ChatMessageRoleAssistant
		}
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    chatMessages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// SystemPrompt builds a system message.
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage builds a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}
