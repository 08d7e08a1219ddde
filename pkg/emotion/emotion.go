package emotion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"SafeDrive/pkg/wellness"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api-inference.huggingface.co/models"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNoPrediction = errors.New("emotion classifier returned no labels")

// IClassifier labels the facial expression in a face crop.
type IClassifier interface {
	Classify(ctx context.Context, jpeg []byte) ([]wellness.Emotion, error)
	Models() []string
}

type Config struct {
	APIKey  string
	BaseURL string
	Models  []string
	Timeout time.Duration
}

type classifier struct {
	apiKey  string
	baseURL string
	models  []string
	http    *http.Client
	log     *logrus.Logger
}

type apiError struct {
	Error string `json:"error"`
}

func New(cfg Config, log *logrus.Logger) (IClassifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("emotion API key is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	models := cfg.Models
	if len(models) == 0 {
		models = []string{
			"dima806/facial_emotions_image_detection",
			"trpakov/vit-face-expression",
			"motheecreator/vit-Facial-Expression-Recognition",
		}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &classifier{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		models:  models,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

func (c *classifier) Models() []string {
	return c.models
}

func (c *classifier) Classify(ctx context.Context, jpeg []byte) ([]wellness.Emotion, error) {
	if len(jpeg) == 0 {
		return nil, errors.New("empty image data")
	}

	var lastErr error
	for _, model := range c.models {
		emotions, err := c.classifyWith(ctx, model, jpeg)
		if err == nil {
			return emotions, nil
		}

		c.log.WithFields(logrus.Fields{
			"model": model,
			"error": err.Error(),
		}).Warn("Emotion model failed, trying next")
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("all emotion models failed: %w", lastErr)
}

func (c *classifier) classifyWith(ctx context.Context, model string, jpeg []byte) ([]wellness.Emotion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, bytes.NewReader(jpeg))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "image/jpeg")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return nil, fmt.Errorf("emotion API error: %s", resp.Status)
	}

	var emotions []wellness.Emotion
	if err := json.Unmarshal(body, &emotions); err != nil {
		return nil, fmt.Errorf("failed to decode emotion response: %w", err)
	}

	valid := emotions[:0]
	for _, e := range emotions {
		if e.Label != "" {
			valid = append(valid, e)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoPrediction
	}

	return valid, nil
}
