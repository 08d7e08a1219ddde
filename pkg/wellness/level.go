package wellness

type Level string

const (
	LevelCritical Level = "Critical"
	LevelHigh     Level = "High"
	LevelModerate Level = "Moderate"
	LevelLow      Level = "Low"
	LevelAlert    Level = "Alert"
	LevelNormal   Level = "Normal"
)

func bucket(score float64, floor Level) Level {
	switch {
	case score > 0.8:
		return LevelCritical
	case score > 0.6:
		return LevelHigh
	case score > 0.4:
		return LevelModerate
	case score > 0.2:
		return LevelLow
	default:
		return floor
	}
}

func DrowsinessLevel(score float64) Level {
	return bucket(score, LevelAlert)
}

func StressLevel(score float64) Level {
	return bucket(score, LevelNormal)
}

// AlertThresholds are the low/medium/high cut points reported to clients.
type AlertThresholds struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

func DefaultAlertThresholds() map[string]AlertThresholds {
	return map[string]AlertThresholds{
		"drowsiness": {Low: 0.3, Medium: 0.6, High: 0.8},
		"stress":     {Low: 0.3, Medium: 0.6, High: 0.8},
	}
}
