package monitoringService

import (
	"context"
	"errors"
	"strings"

	contextPkg "SafeDrive/pkg/context"
	"SafeDrive/pkg/wellness"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const visionPrompt = `You are watching a driver through a dashboard camera. Judge how drowsy the driver looks from the eyes, eyelids and head posture.
Respond with JSON only, no prose:
{"state": "alert|slightly_drowsy|drowsy|very_drowsy|eyes_closed", "confidence": <number between 0 and 1>}`

var errInvalidJudgment = errors.New("vision model answer is not a drowsiness judgment")

type visionJudgment struct {
	State      string
	Score      float64
	Confidence float64
}

// parseJudgment reads the first JSON object in a model answer. Models often
// wrap it in markdown fences or add a sentence around it.
func parseJudgment(text string) (*visionJudgment, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, errInvalidJudgment
	}

	var raw struct {
		State      string  `json:"state"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, errInvalidJudgment
	}

	score, ok := wellness.VisionStateScore(raw.State)
	if !ok {
		return nil, errInvalidJudgment
	}

	return &visionJudgment{
		State:      strings.ToLower(strings.TrimSpace(raw.State)),
		Score:      score,
		Confidence: wellness.Clamp(raw.Confidence),
	}, nil
}

// judgeDrowsiness asks the vision model at most once per processing
// interval and otherwise returns the session's previous judgment.
func (s *monitoringService) judgeDrowsiness(ctx context.Context, session *Session, crop []byte) *visionJudgment {
	if s.deps.Vision == nil {
		return nil
	}

	session.mu.Lock()
	last := session.lastJudgment
	allowed := session.visionLimiter.Allow()
	session.mu.Unlock()

	if !allowed {
		return last
	}

	text, err := s.deps.Vision.AnalyzeImage(ctx, crop, visionPrompt)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": session.ID,
			"error":      err.Error(),
		}).Warn("Vision model unavailable, using eye heuristic")
		return nil
	}

	judgment, err := parseJudgment(text)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": session.ID,
			"answer":     text,
		}).Warn("Unparseable vision model answer")
		return nil
	}

	session.mu.Lock()
	session.lastJudgment = judgment
	session.mu.Unlock()

	return judgment
}

// classifyEmotions follows the same per-session pacing as the vision model.
func (s *monitoringService) classifyEmotions(ctx context.Context, session *Session, crop []byte) []wellness.Emotion {
	if s.deps.Emotion == nil {
		return nil
	}

	session.mu.Lock()
	last := session.lastEmotions
	allowed := session.emoLimiter.Allow()
	session.mu.Unlock()

	if !allowed {
		return last
	}

	emotions, err := s.deps.Emotion.Classify(ctx, crop)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": session.ID,
			"error":      err.Error(),
		}).Warn("Emotion classifier unavailable, using facial tension heuristic")
		return nil
	}

	session.mu.Lock()
	session.lastEmotions = emotions
	session.mu.Unlock()

	return emotions
}
