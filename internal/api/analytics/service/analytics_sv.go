package analyticsService

import (
	"context"

	"SafeDrive/internal/api/analytics"
	"SafeDrive/internal/entity"
	contextPkg "SafeDrive/pkg/context"

	"github.com/sirupsen/logrus"
)

func (s *analyticsService) DeleteData(ctx context.Context, req analytics.DeleteRequest) (analytics.DeleteResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.Collection == "" {
		return analytics.DeleteResponse{}, analytics.ErrCollectionRequired
	}
	if req.Filter == nil {
		req.Filter = map[string]interface{}{}
	}

	conditions, err := parseFilter(req.Collection, req.Filter)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"collection": req.Collection,
			"error":      err.Error(),
		}).Warn("Rejected delete filter")
		return analytics.DeleteResponse{}, err
	}

	repo, err := s.analyticsRepository.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return analytics.DeleteResponse{}, analytics.ErrInternalServerError
	}

	deleted, err := repo.Analytics.DeleteWhere(ctx, req.Collection, conditions)
	if err != nil {
		if rbErr := repo.Rollback(); rbErr != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      rbErr.Error(),
			}).Error("Failed to rollback delete")
		}
		return analytics.DeleteResponse{}, analytics.ErrInternalServerError
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit delete")
		return analytics.DeleteResponse{}, analytics.ErrInternalServerError
	}

	s.log.WithFields(logrus.Fields{
		"request_id":    requestID,
		"collection":    req.Collection,
		"deleted_count": deleted,
	}).Info("Deleted documents")

	return analytics.DeleteResponse{
		Success:      true,
		Collection:   req.Collection,
		DeletedCount: deleted,
		Filter:       req.Filter,
	}, nil
}

func (s *analyticsService) ListCollections(ctx context.Context) (analytics.CollectionsResponse, error) {
	repo, err := s.analyticsRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return analytics.CollectionsResponse{}, analytics.ErrInternalServerError
	}

	names := collectionNames()
	infos := make([]entity.CollectionInfo, 0, len(names))
	for _, name := range names {
		count, err := repo.Analytics.CountRows(ctx, name)
		if err != nil {
			return analytics.CollectionsResponse{}, analytics.ErrInternalServerError
		}
		infos = append(infos, entity.CollectionInfo{Name: name, DocumentCount: count})
	}

	return analytics.CollectionsResponse{
		Collections:      infos,
		TotalCollections: len(infos),
	}, nil
}

func (s *analyticsService) GetAnalytics(ctx context.Context) (analytics.AnalyticsResponse, error) {
	repo, err := s.analyticsRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return analytics.AnalyticsResponse{}, analytics.ErrInternalServerError
	}

	days, err := repo.Analytics.GetDailyAnalytics(ctx, analyticsDays)
	if err != nil {
		return analytics.AnalyticsResponse{}, analytics.ErrInternalServerError
	}

	return analytics.AnalyticsResponse{Analytics: days}, nil
}
