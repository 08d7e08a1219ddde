package monitoringService

import (
	"context"
	"time"

	"SafeDrive/internal/api/monitoring"
	"SafeDrive/internal/entity"
	contextPkg "SafeDrive/pkg/context"
	"SafeDrive/pkg/wellness"

	"github.com/sirupsen/logrus"
)

func (s *monitoringService) AnalyzeSteering(ctx context.Context, req monitoring.SteeringRequest) (monitoring.SteeringResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	now := s.now()

	report := wellness.AnalyzeSteering(req.Movements)
	resp := monitoring.SteeringResponse{
		SteeringReport: report,
		Timestamp:      now.Format(time.RFC3339),
	}

	if len(req.Movements) == 0 {
		return resp, nil
	}

	resp.Recommendations = wellness.Recommendations(0, 0, report.FatigueIndicator)

	if s.deps.Repository == nil {
		return resp, nil
	}

	id, err := s.deps.Utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return resp, nil
	}

	repo, err := s.deps.Repository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return resp, nil
	}

	err = repo.Monitoring.CreateSteeringAnalysis(ctx, entity.SteeringAnalysis{
		ID:               id,
		FatigueIndicator: report.FatigueIndicator,
		Pattern:          report.Pattern,
		Variability:      report.Variability,
		CorrectionRate:   report.CorrectionRate,
		SampleCount:      len(req.Movements),
		CreatedAt:        now,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to store steering analysis")
	}

	return resp, nil
}
