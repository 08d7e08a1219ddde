package analytics

import "SafeDrive/pkg/response"

var (
	ErrCollectionRequired  = response.NewError(400, "Collection name is required")
	ErrUnknownCollection   = response.NewError(400, "unknown collection")
	ErrUnknownField        = response.NewError(400, "unknown filter field")
	ErrUnsupportedOperator = response.NewError(400, "unsupported filter operator")
	ErrInvalidFilterValue  = response.NewError(400, "invalid filter value")
	ErrInternalServerError = response.NewError(500, "internal server error")
)
