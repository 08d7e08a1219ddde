package monitoringService

import (
	"context"
	"sync"
	"time"

	contextPkg "SafeDrive/pkg/context"
	"SafeDrive/pkg/wellness"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Session is the smoothing state of one monitoring connection.
type Session struct {
	ID        string
	StartedAt time.Time

	mu            sync.Mutex
	drowsiness    *wellness.Channel
	stress        *wellness.Channel
	visionLimiter *rate.Limiter
	lastJudgment  *visionJudgment
	emoLimiter    *rate.Limiter
	lastEmotions  []wellness.Emotion
	frames        int
}

func newSession(id string, now time.Time, opts Options) *Session {
	limit := rate.Inf
	if opts.ProcessingInterval > 0 {
		limit = rate.Every(opts.ProcessingInterval)
	}

	return &Session{
		ID:            id,
		StartedAt:     now,
		drowsiness:    wellness.NewChannel(wellness.DrowsinessAlpha, wellness.DrowsinessInitial, opts.HistoryLimit),
		stress:        wellness.NewChannel(wellness.StressAlpha, wellness.StressInitial, opts.HistoryLimit),
		visionLimiter: rate.NewLimiter(limit, 1),
		emoLimiter:    rate.NewLimiter(limit, 1),
	}
}

func (s *monitoringService) OpenSession(ctx context.Context) (*Session, error) {
	now := s.now()
	id, err := s.deps.Utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to generate session ID")
		return nil, err
	}

	session := newSession(id, now, s.opts)

	s.mu.Lock()
	s.sessions[id] = session
	active := len(s.sessions)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"request_id":         contextPkg.GetRequestID(ctx),
		"session_id":         id,
		"active_connections": active,
	}).Info("Monitoring session opened")

	return session, nil
}

func (s *monitoringService) CloseSession(session *Session) {
	if session == nil {
		return
	}

	s.mu.Lock()
	delete(s.sessions, session.ID)
	active := len(s.sessions)
	s.mu.Unlock()

	session.mu.Lock()
	frames := session.frames
	session.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"session_id":         session.ID,
		"frames":             frames,
		"duration":           s.now().Sub(session.StartedAt).String(),
		"active_connections": active,
	}).Info("Monitoring session closed")
}
