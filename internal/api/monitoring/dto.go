package monitoring

import (
	"SafeDrive/internal/entity"
	"SafeDrive/pkg/wellness"
)

const (
	MessageTypeVideoFrame = "video_frame"
	MessageTypePing       = "ping"
	MessageTypePong       = "pong"

	StatusProcessed      = "processed"
	StatusNoFaceDetected = "no_face_detected"
	StatusError          = "error"

	SourceLLM    = "llm"
	SourceStatic = "static"
)

type StreamMessage struct {
	Type  string `json:"type"`
	Frame string `json:"frame,omitempty"`
}

// StatusResponse answers stream messages that carry no scores.
type StatusResponse struct {
	Type      string `json:"type,omitempty"`
	Status    string `json:"status,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type FrameResult struct {
	Status               string                              `json:"status"`
	SessionID            string                              `json:"session_id"`
	DrowsinessScore      float64                             `json:"drowsiness_score"`
	StressLevel          float64                             `json:"stress_level"`
	DrowsinessLevel      wellness.Level                      `json:"drowsiness_level"`
	StressCategory       wellness.Level                      `json:"stress_category"`
	FacesDetected        int                                 `json:"faces_detected"`
	Recommendations      []string                            `json:"recommendations"`
	RecommendationSource string                              `json:"recommendation_source"`
	DetailedMetrics      entity.MonitoringDetails            `json:"detailed_metrics"`
	AlertThresholds      map[string]wellness.AlertThresholds `json:"alert_thresholds"`
	Timestamp            string                              `json:"timestamp"`
}

type SteeringRequest struct {
	Movements []wellness.SteeringSample `json:"movements" validate:"max=10000"`
}

type SteeringResponse struct {
	wellness.SteeringReport
	Recommendations []string `json:"recommendations,omitempty"`
	Timestamp       string   `json:"timestamp"`
}

type ModelStatus struct {
	FaceDetector     bool `json:"face_detector"`
	VisionModel      bool `json:"vision_model"`
	EmotionModel     bool `json:"emotion_model"`
	TextModel        bool `json:"text_model"`
	HeuristicScoring bool `json:"heuristic_scoring"`
}
