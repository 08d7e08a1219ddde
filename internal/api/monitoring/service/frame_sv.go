package monitoringService

import (
	"context"
	"fmt"
	"time"

	"SafeDrive/internal/api/monitoring"
	"SafeDrive/internal/entity"
	contextPkg "SafeDrive/pkg/context"
	"SafeDrive/pkg/detector"
	"SafeDrive/pkg/wellness"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const cropQuality = 85

func (s *monitoringService) ProcessFrame(ctx context.Context, session *Session, frame string) (*monitoring.FrameResult, error) {
	requestID := contextPkg.GetRequestID(ctx)
	ctx = contextPkg.WithSessionID(ctx, session.ID)

	raw, img, err := s.deps.Utils.DecodeFrame(frame)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Warn("Failed to decode video frame")
		return nil, fmt.Errorf("%w: %s", monitoring.ErrInvalidFrame, err.Error())
	}

	if s.deps.Detector == nil {
		return nil, monitoring.ErrDetectorUnavailable
	}

	faces, err := s.deps.Detector.DetectFaces(ctx, raw)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Face detection failed")
		return nil, fmt.Errorf("%w: %s", monitoring.ErrDetectorUnavailable, err.Error())
	}

	if len(faces) == 0 {
		return nil, monitoring.ErrNoFaceDetected
	}

	face := faces[0]
	gray := wellness.NewGray(img, face.Box)

	var judgment *visionJudgment
	var emotions []wellness.Emotion

	crop, err := s.deps.Utils.CropJPEG(img, face.Box.Bounds(), cropQuality)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Warn("Failed to crop face, skipping external analyzers")
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			judgment = s.judgeDrowsiness(gctx, session, crop)
			return nil
		})
		g.Go(func() error {
			emotions = s.classifyEmotions(gctx, session, crop)
			return nil
		})
		_ = g.Wait()
	}

	session.mu.Lock()
	drowsiness := s.scoreDrowsiness(session, gray, face, judgment)
	stress := s.scoreStress(session, gray, emotions)
	session.frames++
	session.mu.Unlock()

	recommendations, source := s.recommend(ctx, drowsiness.Score, stress.Score)

	now := s.now()
	result := &monitoring.FrameResult{
		Status:               monitoring.StatusProcessed,
		SessionID:            session.ID,
		DrowsinessScore:      drowsiness.Score,
		StressLevel:          stress.Score,
		DrowsinessLevel:      wellness.DrowsinessLevel(drowsiness.Score),
		StressCategory:       wellness.StressLevel(stress.Score),
		FacesDetected:        len(faces),
		Recommendations:      recommendations,
		RecommendationSource: source,
		DetailedMetrics: entity.MonitoringDetails{
			Drowsiness: drowsiness,
			Stress:     stress,
		},
		AlertThresholds: s.opts.AlertThresholds,
		Timestamp:       now.Format(time.RFC3339),
	}

	s.store(ctx, session, result, now)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": session.ID,
		"drowsiness": fmt.Sprintf("%.2f (%s)", result.DrowsinessScore, result.DrowsinessLevel),
		"stress":     fmt.Sprintf("%.2f (%s)", result.StressLevel, result.StressCategory),
	}).Debug("Frame processed")

	return result, nil
}

// scoreDrowsiness must be called with session.mu held.
func (s *monitoringService) scoreDrowsiness(session *Session, gray *wellness.Gray, face detector.Face, judgment *visionJudgment) entity.DrowsinessDetail {
	if gray.Empty() {
		return entity.DrowsinessDetail{
			Score:           wellness.DrowsinessOnError,
			Level:           string(wellness.DrowsinessLevel(wellness.DrowsinessOnError)),
			Source:          entity.SourceHeuristic,
			PredictedLabel:  "unknown",
			TemporalMetrics: session.drowsiness.Metrics(),
		}
	}

	heuristic := wellness.EstimateDrowsiness(gray, face.Eyes)
	detail := entity.DrowsinessDetail{
		Source:         entity.SourceHeuristic,
		PredictedLabel: "heuristic",
		Heuristic:      heuristic,
	}

	current := heuristic.Score
	if judgment != nil && judgment.Confidence >= s.opts.ConfidenceThreshold {
		current = wellness.Blend(heuristic.Score, judgment.Score, judgment.Confidence, s.opts.VisionWeight)
		detail.Source = entity.SourceVision
		detail.PredictedLabel = judgment.State
		detail.Confidence = judgment.Confidence
	}

	detail.Score, detail.TemporalMetrics = session.drowsiness.Observe(current)
	detail.Level = string(wellness.DrowsinessLevel(detail.Score))

	return detail
}

// scoreStress must be called with session.mu held.
func (s *monitoringService) scoreStress(session *Session, gray *wellness.Gray, emotions []wellness.Emotion) entity.StressDetail {
	if gray.Empty() {
		return entity.StressDetail{
			Score:           wellness.StressOnError,
			Level:           string(wellness.StressLevel(wellness.StressOnError)),
			Source:          entity.SourceHeuristic,
			PrimaryEmotion:  "unknown",
			AllEmotions:     map[string]float64{},
			TemporalMetrics: session.stress.Metrics(),
		}
	}

	heuristic := wellness.EstimateStress(gray)
	detail := entity.StressDetail{
		Source:         entity.SourceHeuristic,
		PrimaryEmotion: "neutral",
		AllEmotions:    make(map[string]float64, len(emotions)),
		Heuristic:      heuristic,
	}

	current := heuristic.Score
	if primary, ok := wellness.PrimaryEmotion(emotions); ok {
		current = wellness.Blend(heuristic.Score, wellness.StressFromEmotions(emotions), primary.Score, s.opts.EmotionWeight)
		detail.Source = entity.SourceEmotion
		detail.PrimaryEmotion = primary.Label
		detail.Confidence = primary.Score
		for _, e := range emotions {
			detail.AllEmotions[e.Label] = e.Score
		}
	}

	detail.Score, detail.TemporalMetrics = session.stress.Observe(current)
	detail.Level = string(wellness.StressLevel(detail.Score))

	return detail
}

func (s *monitoringService) store(ctx context.Context, session *Session, result *monitoring.FrameResult, now time.Time) {
	if s.deps.Repository == nil {
		return
	}

	logger := s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": session.ID,
	})

	id, err := s.deps.Utils.NewULIDFromTimestamp(now)
	if err != nil {
		logger.WithField("error", err.Error()).Error("Failed to generate record ID")
		return
	}

	repo, err := s.deps.Repository.NewClient(false)
	if err != nil {
		logger.WithField("error", err.Error()).Error("Failed to create new client")
		return
	}

	err = repo.Monitoring.CreateRecord(ctx, entity.MonitoringRecord{
		ID:              id,
		SessionID:       session.ID,
		Timestamp:       now,
		DrowsinessScore: result.DrowsinessScore,
		StressLevel:     result.StressLevel,
		FacesDetected:   result.FacesDetected,
		DrowsinessLevel: result.DrowsinessLevel,
		StressCategory:  result.StressCategory,
		Details:         result.DetailedMetrics,
	})
	if err != nil {
		logger.WithField("error", err.Error()).Error("Failed to store monitoring record")
	}
}
