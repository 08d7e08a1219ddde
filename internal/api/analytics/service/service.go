package analyticsService

import (
	"context"

	"SafeDrive/internal/api/analytics"
	analyticsRepository "SafeDrive/internal/api/analytics/repository"

	"github.com/sirupsen/logrus"
)

const analyticsDays = 7

type IAnalyticsService interface {
	DeleteData(ctx context.Context, req analytics.DeleteRequest) (analytics.DeleteResponse, error)
	ListCollections(ctx context.Context) (analytics.CollectionsResponse, error)
	GetAnalytics(ctx context.Context) (analytics.AnalyticsResponse, error)
}

type analyticsService struct {
	log                 *logrus.Logger
	analyticsRepository analyticsRepository.Repository
}

func NewAnalyticsService(log *logrus.Logger, ar analyticsRepository.Repository) IAnalyticsService {
	return &analyticsService{
		log:                 log,
		analyticsRepository: ar,
	}
}
