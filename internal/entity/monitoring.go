package entity

import (
	"time"

	"SafeDrive/pkg/wellness"
)

const (
	SourceHeuristic = "heuristic"
	SourceVision    = "vision_model"
	SourceEmotion   = "emotion_model"
)

type MonitoringRecord struct {
	ID              string
	SessionID       string
	Timestamp       time.Time
	DrowsinessScore float64
	StressLevel     float64
	FacesDetected   int
	DrowsinessLevel wellness.Level
	StressCategory  wellness.Level
	Details         MonitoringDetails
}

// MonitoringDetails is the per-frame breakdown kept alongside the scores.
type MonitoringDetails struct {
	Drowsiness DrowsinessDetail `json:"drowsiness"`
	Stress     StressDetail     `json:"stress"`
}

type DrowsinessDetail struct {
	Score          float64 `json:"drowsiness_score"`
	Level          string  `json:"level"`
	Source         string  `json:"source"`
	PredictedLabel string  `json:"predicted_label"`
	Confidence     float64 `json:"confidence"`
	wellness.TemporalMetrics
	Heuristic wellness.DrowsinessEstimate `json:"heuristic"`
}

type StressDetail struct {
	Score          float64            `json:"stress_score"`
	Level          string             `json:"level"`
	Source         string             `json:"source"`
	PrimaryEmotion string             `json:"primary_emotion"`
	Confidence     float64            `json:"confidence"`
	AllEmotions    map[string]float64 `json:"all_emotions"`
	wellness.TemporalMetrics
	Heuristic wellness.StressEstimate `json:"heuristic"`
}
