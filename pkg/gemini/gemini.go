package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var ErrNoResponse = errors.New("no response from Gemini API")

type IGemini interface {
	// AnalyzeImage asks each model of the fallback chain in order and returns
	// the first text answer.
	AnalyzeImage(ctx context.Context, jpeg []byte, prompt string) (string, error)
	Models() []string
	Close() error
}

type Config struct {
	APIKey      string
	Models      []string
	Temperature float32
}

type generator interface {
	generate(ctx context.Context, model string, jpeg []byte, prompt string) (string, error)
}

type geminiClient struct {
	models []string
	gen    generator
	client *genai.Client
	log    *logrus.Logger
}

func NewGeminiClient(cfg Config, log *logrus.Logger) (IGemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	models := cfg.Models
	if len(models) == 0 {
		models = []string{"gemini-1.5-flash", "gemini-1.5-flash-8b", "gemini-1.5-pro"}
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		models: models,
		gen:    &sdkGenerator{client: client, temperature: cfg.Temperature},
		client: client,
		log:    log,
	}, nil
}

func (g *geminiClient) Models() []string {
	return g.models
}

func (g *geminiClient) AnalyzeImage(ctx context.Context, jpeg []byte, prompt string) (string, error) {
	if len(jpeg) == 0 {
		return "", errors.New("empty image data")
	}
	if prompt == "" {
		prompt = "Analyze this image and provide details in JSON format."
	}

	var lastErr error
	for _, model := range g.models {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := g.gen.generate(ctx, model, jpeg, prompt)
		if err == nil {
			return text, nil
		}

		g.log.WithFields(logrus.Fields{
			"model": model,
			"error": err.Error(),
		}).Warn("Vision model failed, trying next")
		lastErr = err
	}

	if lastErr == nil {
		lastErr = ErrNoResponse
	}
	return "", fmt.Errorf("all vision models failed: %w", lastErr)
}

func (g *geminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

type sdkGenerator struct {
	client      *genai.Client
	temperature float32
}

func (s *sdkGenerator) generate(ctx context.Context, modelName string, jpeg []byte, prompt string) (string, error) {
	model := s.client.GenerativeModel(modelName)
	if s.temperature > 0 {
		model.SetTemperature(s.temperature)
	}

	res, err := model.GenerateContent(ctx, genai.Text(prompt), genai.ImageData("jpeg", jpeg))
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoResponse
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from Gemini API")
	}

	return string(text), nil
}
