package safety

import "SafeDrive/internal/entity"

const (
	DefaultSearchRadius     = 5000
	DefaultEmergencyMessage = "Emergency assistance needed"
)

type SafeStopsRequest struct {
	Lat    float64 `query:"lat" validate:"min=-90,max=90"`
	Lon    float64 `query:"lon" validate:"min=-180,max=180"`
	Radius float64 `query:"radius" validate:"min=0,max=50000"`
}

type SafeStopsResponse struct {
	SafeStops []entity.SafeStop `json:"safe_stops"`
}

type EmergencyQRRequest struct {
	Lat     float64 `json:"lat" validate:"min=-90,max=90"`
	Lon     float64 `json:"lon" validate:"min=-180,max=180"`
	Message string  `json:"message" validate:"max=500"`
}

type EmergencyQRResponse struct {
	Success       bool   `json:"success"`
	QRCode        string `json:"qr_code"`
	EmergencyText string `json:"emergency_text"`
	LocationURL   string `json:"location_url"`
	ShareURL      string `json:"share_url,omitempty"`
}
