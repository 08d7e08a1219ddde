package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"SafeDrive/database/postgres"
	"SafeDrive/pkg/redis"
	"SafeDrive/pkg/s3"
	"SafeDrive/pkg/wellness"
)

const (
	AppName    = "Driver Wellness Monitor Backend"
	AppVersion = "1.0.0"
)

type Config struct {
	App        AppConfig
	API        APIConfig
	AI         AIConfig
	Monitoring MonitoringConfig
	Database   postgres.Config
	Redis      redis.Config
	S3         s3.Config
}

type AppConfig struct {
	Port           string
	Debug          bool
	AllowedOrigins string
	JWTSecret      string
}

type APIConfig struct {
	GeminiAPIKey    string
	GroqAPIKey      string
	GroqBaseURL     string
	HFAPIKey        string
	HFBaseURL       string
	ORSAPIKey       string
	FaceDetectorURL string
}

type AIConfig struct {
	VisionModels        []string
	TextModels          []string
	EmotionModels       []string
	ConfidenceThreshold float64
	ProcessingInterval  time.Duration
	VisionWeight        float64
	EmotionWeight       float64
}

type MonitoringConfig struct {
	HistoryLimit    int
	AlertThresholds map[string]wellness.AlertThresholds
}

type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Load reads the configuration from the environment.
func Load() Config {
	port := getEnv("APP_PORT", "")
	if port == "" {
		port = getEnv("PORT", "8000")
	}

	return Config{
		App: AppConfig{
			Port:           port,
			Debug:          strings.EqualFold(getEnv("DEBUG", "false"), "true"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
			JWTSecret:      getEnv("JWT_SECRET", ""),
		},
		API: APIConfig{
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
			GroqBaseURL:     getEnv("GROQ_BASE_URL", ""),
			HFAPIKey:        getEnv("HF_API_KEY", ""),
			HFBaseURL:       getEnv("HF_BASE_URL", ""),
			ORSAPIKey:       getEnv("ORS_API_KEY", ""),
			FaceDetectorURL: getEnv("FACE_DETECTOR_URL", ""),
		},
		AI: AIConfig{
			VisionModels:        getEnvList("GEMINI_MODELS"),
			TextModels:          getEnvList("GROQ_MODELS"),
			EmotionModels:       getEnvList("EMOTION_MODELS"),
			ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 0.6),
			ProcessingInterval:  time.Duration(getEnvFloat("PROCESSING_INTERVAL", 2) * float64(time.Second)),
			VisionWeight:        getEnvFloat("VLM_WEIGHT", 0.6),
			EmotionWeight:       getEnvFloat("EMOTION_WEIGHT", 0.6),
		},
		Monitoring: MonitoringConfig{
			HistoryLimit:    getEnvInt("HISTORY_LIMIT", wellness.DefaultHistoryLimit),
			AlertThresholds: wellness.DefaultAlertThresholds(),
		},
		Database: postgres.Config{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: redis.Config{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "safedrive"),
		},
		S3: s3.Config{
			Region:          getEnv("AWS_REGION", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("AWS_BUCKET_NAME", ""),
			PresignTTL:      time.Duration(getEnvInt("AWS_PRESIGN_MINUTES", 60)) * time.Minute,
		},
	}
}

// Validate reports missing required settings as errors. Missing optional
// integrations are warnings since every one of them has a local fallback.
func (c Config) Validate() ValidationResult {
	var errs, warnings []string

	if c.Database.Host == "" {
		errs = append(errs, "DB_HOST is required")
	}
	if c.Database.Name == "" {
		errs = append(errs, "DB_NAME is required")
	}
	if c.App.Port == "" {
		errs = append(errs, "APP_PORT is required")
	}

	if c.API.ORSAPIKey == "" {
		warnings = append(warnings, "ORS_API_KEY is not set, safe stops use generated locations")
	}
	if c.API.GroqAPIKey == "" {
		warnings = append(warnings, "GROQ_API_KEY is not set, recommendations use the static table")
	}
	if c.API.GeminiAPIKey == "" {
		warnings = append(warnings, "GEMINI_API_KEY is not set, drowsiness uses the eye heuristic only")
	}
	if c.API.HFAPIKey == "" {
		warnings = append(warnings, "HF_API_KEY is not set, stress uses the facial tension heuristic only")
	}
	if c.API.FaceDetectorURL == "" {
		warnings = append(warnings, "FACE_DETECTOR_URL is not set, frames cannot be scored")
	}
	if c.Redis.Address == "" {
		warnings = append(warnings, "REDIS_ADDRESS is not set, caching is disabled")
	}
	if c.App.JWTSecret == "" {
		warnings = append(warnings, "JWT_SECRET is not set, data deletion is disabled")
	}

	if c.AI.ConfidenceThreshold < 0 || c.AI.ConfidenceThreshold > 1 {
		warnings = append(warnings, "CONFIDENCE_THRESHOLD should be between 0 and 1")
	}
	if c.AI.VisionWeight < 0 || c.AI.VisionWeight > 1 {
		warnings = append(warnings, "VLM_WEIGHT should be between 0 and 1")
	}
	if c.AI.EmotionWeight < 0 || c.AI.EmotionWeight > 1 {
		warnings = append(warnings, "EMOTION_WEIGHT should be between 0 and 1")
	}
	if c.AI.ProcessingInterval < 0 {
		warnings = append(warnings, "PROCESSING_INTERVAL should not be negative")
	}
	if c.Monitoring.HistoryLimit <= 0 {
		warnings = append(warnings, "HISTORY_LIMIT should be positive")
	}

	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
