package safetyService

import (
	"context"
	"time"

	"SafeDrive/internal/api/safety"
	"SafeDrive/pkg/geocoder"
	"SafeDrive/pkg/redis"
	"SafeDrive/pkg/s3"
	"SafeDrive/pkg/utils"

	"github.com/sirupsen/logrus"
)

type ISafetyService interface {
	FindSafeStops(ctx context.Context, req safety.SafeStopsRequest) (safety.SafeStopsResponse, error)
	GenerateEmergencyQR(ctx context.Context, req safety.EmergencyQRRequest) (safety.EmergencyQRResponse, error)
}

// Dependencies of the safety endpoints. Geocoder, Cache and Storage may be
// nil: stops then come from the synthetic fallback and QR codes are only
// returned inline.
type Dependencies struct {
	Geocoder geocoder.IGeocoder
	Cache    redis.IRedis
	Storage  s3.ItfS3
	Utils    utils.IUtils
}

type safetyService struct {
	log  *logrus.Logger
	deps Dependencies
	now  func() time.Time
}

func NewSafetyService(log *logrus.Logger, deps Dependencies) ISafetyService {
	return &safetyService{
		log:  log,
		deps: deps,
		now:  time.Now,
	}
}
