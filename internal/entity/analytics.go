package entity

type CollectionInfo struct {
	Name          string `json:"name"`
	DocumentCount int64  `json:"documentCount"`
}

type DailyAnalytics struct {
	Date          string  `json:"_id" db:"day"`
	AvgDrowsiness float64 `json:"avg_drowsiness" db:"avg_drowsiness"`
	AvgStress     float64 `json:"avg_stress" db:"avg_stress"`
	SessionCount  int64   `json:"session_count" db:"session_count"`
}

// FilterCondition is one validated comparison of a delete filter.
type FilterCondition struct {
	Field    string
	Operator string
	Value    interface{}
}
