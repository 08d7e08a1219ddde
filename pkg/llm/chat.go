package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

var ErrNoChoices = errors.New("no response from text model")

type IChat interface {
	// Complete sends a single user prompt through the model fallback chain.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	Models() []string
}

type Config struct {
	APIKey  string
	BaseURL string
	Models  []string
}

type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type chatService struct {
	client completer
	models []string
	log    *logrus.Logger
}

func NewChat(cfg Config, log *logrus.Logger) (IChat, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("text model API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if clientCfg.BaseURL == "" {
		clientCfg.BaseURL = defaultBaseURL
	}

	models := cfg.Models
	if len(models) == 0 {
		models = []string{"llama-3.1-8b-instant", "llama3-8b-8192", "gemma2-9b-it"}
	}

	return &chatService{
		client: openai.NewClientWithConfig(clientCfg),
		models: models,
		log:    log,
	}, nil
}

func (c *chatService) Models() []string {
	return c.models
}

func (c *chatService) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are a driver safety assistant. Answer with short, plain lines, one recommendation per line.",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		},
	}

	var lastErr error
	for _, model := range c.models {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       model,
			Messages:    messages,
			Temperature: 0.5,
			MaxTokens:   maxTokens,
		})
		if err != nil {
			c.log.WithFields(logrus.Fields{
				"model": model,
				"error": err.Error(),
			}).Warn("Text model failed, trying next")
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			lastErr = ErrNoChoices
			continue
		}

		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	if lastErr == nil {
		lastErr = ErrNoChoices
	}
	return "", fmt.Errorf("text generation failed: %w", lastErr)
}
