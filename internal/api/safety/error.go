package safety

import "SafeDrive/pkg/response"

var (
	ErrMissingLocation     = response.NewError(400, "lat and lon query parameters are required")
	ErrInvalidLocation     = response.NewError(400, "invalid location")
	ErrQRGenerationFailed  = response.NewError(500, "QR generation failed")
	ErrInternalServerError = response.NewError(500, "internal server error")
)
