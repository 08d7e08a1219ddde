package analytics

import "SafeDrive/internal/entity"

type DeleteRequest struct {
	Collection string                 `json:"collection"`
	Filter     map[string]interface{} `json:"filter"`
}

type DeleteResponse struct {
	Success      bool                   `json:"success"`
	Collection   string                 `json:"collection"`
	DeletedCount int64                  `json:"deletedCount"`
	Filter       map[string]interface{} `json:"filter"`
}

type CollectionsResponse struct {
	Collections      []entity.CollectionInfo `json:"collections"`
	TotalCollections int                     `json:"totalCollections"`
}

type AnalyticsResponse struct {
	Analytics []entity.DailyAnalytics `json:"analytics"`
}
