package safetyService

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"SafeDrive/internal/api/safety"
	contextPkg "SafeDrive/pkg/context"
	"SafeDrive/pkg/qr"

	"github.com/sirupsen/logrus"
)

const emergencyTimeLayout = "2006-01-02 15:04:05"

func locationURL(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s&z=15",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))
}

func (s *safetyService) GenerateEmergencyQR(ctx context.Context, req safety.EmergencyQRRequest) (safety.EmergencyQRResponse, error) {
	logger := s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
	})

	message := strings.TrimSpace(req.Message)
	if message == "" {
		message = safety.DefaultEmergencyMessage
	}

	now := s.now()
	mapsURL := locationURL(req.Lat, req.Lon)
	text := fmt.Sprintf("%s\nLocation: %s\nTime: %s", message, mapsURL, now.Format(emergencyTimeLayout))

	png, err := qr.Encode(text, qr.DefaultSize)
	if err != nil {
		logger.WithField("error", err.Error()).Error("QR generation failed")
		return safety.EmergencyQRResponse{}, fmt.Errorf("%w: %s", safety.ErrQRGenerationFailed, err.Error())
	}

	res := safety.EmergencyQRResponse{
		Success:       true,
		QRCode:        qr.DataURL(png),
		EmergencyText: text,
		LocationURL:   mapsURL,
	}

	if s.deps.Storage != nil {
		res.ShareURL = s.share(ctx, png)
	}

	logger.WithField("shared", res.ShareURL != "").Info("Emergency QR generated")

	return res, nil
}

// share uploads the QR image and returns a presigned link, or "" on failure.
func (s *safetyService) share(ctx context.Context, png []byte) string {
	logger := s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
	})

	id, err := s.deps.Utils.NewULIDFromTimestamp(s.now())
	if err != nil {
		logger.WithField("error", err.Error()).Error("Failed to generate ULID")
		return ""
	}

	location, err := s.deps.Storage.UploadBytes(ctx, "emergency-qr/"+id+".png", png, "image/png")
	if err != nil {
		logger.WithField("error", err.Error()).Warn("Failed to upload emergency QR")
		return ""
	}

	link, err := s.deps.Storage.PresignUrl(location)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("Failed to presign emergency QR")
		if delErr := s.deps.Storage.DeleteFile(location); delErr != nil {
			logger.WithField("error", delErr.Error()).Warn("Failed to remove unshared emergency QR")
		}
		return ""
	}

	return link
}
