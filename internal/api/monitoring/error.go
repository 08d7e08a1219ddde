package monitoring

import "SafeDrive/pkg/response"

var (
	ErrInvalidFrame        = response.NewError(400, "invalid video frame")
	ErrUnsupportedMessage  = response.NewError(400, "unsupported message type")
	ErrNoFaceDetected      = response.NewError(422, "no face detected")
	ErrDetectorUnavailable = response.NewError(503, "face detector unavailable")
	ErrInvalidSteeringData = response.NewError(400, "invalid steering data")
	ErrInternalServerError = response.NewError(500, "internal server error")
)
