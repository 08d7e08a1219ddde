package monitoringService

import (
	"context"
	"sync"
	"time"

	"SafeDrive/internal/api/monitoring"
	monitoringRepository "SafeDrive/internal/api/monitoring/repository"
	"SafeDrive/pkg/detector"
	"SafeDrive/pkg/emotion"
	"SafeDrive/pkg/gemini"
	"SafeDrive/pkg/llm"
	"SafeDrive/pkg/redis"
	"SafeDrive/pkg/utils"
	"SafeDrive/pkg/wellness"

	"github.com/sirupsen/logrus"
)

type IMonitoringService interface {
	OpenSession(ctx context.Context) (*Session, error)
	CloseSession(session *Session)
	ProcessFrame(ctx context.Context, session *Session, frame string) (*monitoring.FrameResult, error)
	AnalyzeSteering(ctx context.Context, req monitoring.SteeringRequest) (monitoring.SteeringResponse, error)
	ActiveSessions() int
	ModelStatus() monitoring.ModelStatus
}

type Options struct {
	VisionWeight        float64
	EmotionWeight       float64
	ConfidenceThreshold float64
	ProcessingInterval  time.Duration
	HistoryLimit        int
	AlertThresholds     map[string]wellness.AlertThresholds
	AdviceCacheTTL      time.Duration
	AdviceMaxTokens     int
}

func DefaultOptions() Options {
	return Options{
		VisionWeight:        0.6,
		EmotionWeight:       0.6,
		ConfidenceThreshold: 0.6,
		ProcessingInterval:  2 * time.Second,
		HistoryLimit:        wellness.DefaultHistoryLimit,
		AlertThresholds:     wellness.DefaultAlertThresholds(),
		AdviceCacheTTL:      time.Minute,
		AdviceMaxTokens:     200,
	}
}

// Dependencies groups the external clients. Any of the analyzers and the
// cache may be nil; the pipeline then uses its local fallback.
type Dependencies struct {
	Repository monitoringRepository.Repository
	Detector   detector.IDetector
	Vision     gemini.IGemini
	Emotion    emotion.IClassifier
	Chat       llm.IChat
	Cache      redis.IRedis
	Utils      utils.IUtils
}

type monitoringService struct {
	log      *logrus.Logger
	deps     Dependencies
	opts     Options
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewMonitoringService(log *logrus.Logger, deps Dependencies, opts Options) IMonitoringService {
	defaults := DefaultOptions()
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaults.HistoryLimit
	}
	if opts.AlertThresholds == nil {
		opts.AlertThresholds = defaults.AlertThresholds
	}
	if opts.AdviceCacheTTL <= 0 {
		opts.AdviceCacheTTL = defaults.AdviceCacheTTL
	}
	if opts.AdviceMaxTokens <= 0 {
		opts.AdviceMaxTokens = defaults.AdviceMaxTokens
	}

	return &monitoringService{
		log:      log,
		deps:     deps,
		opts:     opts,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (s *monitoringService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *monitoringService) ModelStatus() monitoring.ModelStatus {
	return monitoring.ModelStatus{
		FaceDetector:     s.deps.Detector != nil && s.deps.Detector.IsConnected(),
		VisionModel:      s.deps.Vision != nil,
		EmotionModel:     s.deps.Emotion != nil,
		TextModel:        s.deps.Chat != nil,
		HeuristicScoring: true,
	}
}
