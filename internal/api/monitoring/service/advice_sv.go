package monitoringService

import (
	"context"
	"fmt"
	"math"

	"SafeDrive/internal/api/monitoring"
	contextPkg "SafeDrive/pkg/context"
	"SafeDrive/pkg/wellness"

	"github.com/sirupsen/logrus"
)

func adviceCacheKey(drowsiness, stress float64) string {
	return fmt.Sprintf("advice:%.1f:%.1f", math.Round(drowsiness*10)/10, math.Round(stress*10)/10)
}

// recommend asks the text model only for high scores. Answers are cached per
// 0.1 score bucket; any failure falls back to the static table.
func (s *monitoringService) recommend(ctx context.Context, drowsiness, stress float64) ([]string, string) {
	static := wellness.Recommendations(drowsiness, stress, 0)
	if s.deps.Chat == nil || !wellness.NeedsAdvice(drowsiness, stress) {
		return static, monitoring.SourceStatic
	}

	logger := s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": contextPkg.GetSessionID(ctx),
	})

	key := adviceCacheKey(drowsiness, stress)
	if s.deps.Cache != nil {
		var cached []string
		if err := s.deps.Cache.GetJSON(ctx, key, &cached); err == nil && len(cached) > 0 {
			return cached, monitoring.SourceLLM
		}
	}

	text, err := s.deps.Chat.Complete(ctx, wellness.AdvicePrompt(drowsiness, stress), s.opts.AdviceMaxTokens)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("Text model unavailable, using static recommendations")
		return static, monitoring.SourceStatic
	}

	advice := wellness.ParseAdvice(text)
	if len(advice) == 0 {
		return static, monitoring.SourceStatic
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.SetJSON(ctx, key, advice, s.opts.AdviceCacheTTL); err != nil {
			logger.WithField("error", err.Error()).Debug("Failed to cache recommendations")
		}
	}

	return advice, monitoring.SourceLLM
}
