package wellness

import "math"

const (
	PatternInsufficientData = "insufficient_data"
	PatternNormal           = "normal"
	PatternIrregular        = "irregular"
	PatternErratic          = "erratic"

	steeringCorrectionDegrees = 5.0
	steeringNormalizer        = 100.0
)

type SteeringSample struct {
	Angle     float64 `json:"angle"`
	Timestamp float64 `json:"timestamp"`
}

type SteeringReport struct {
	FatigueIndicator float64 `json:"fatigue_indicator"`
	Pattern          string  `json:"pattern"`
	Variability      float64 `json:"variability"`
	CorrectionRate   float64 `json:"correction_rate"`
}

// AnalyzeSteering scores steering-wheel variability. Fatigue grows with the
// spread of angles; the correction rate counts jumps above five degrees.
func AnalyzeSteering(samples []SteeringSample) SteeringReport {
	if len(samples) == 0 {
		return SteeringReport{Pattern: PatternInsufficientData}
	}

	angles := make([]float64, len(samples))
	for i, s := range samples {
		angles[i] = s.Angle
	}

	variability := math.Sqrt(variance(angles))

	corrections := 0
	for i := 1; i < len(angles); i++ {
		if math.Abs(angles[i]-angles[i-1]) > steeringCorrectionDegrees {
			corrections++
		}
	}

	fatigue := math.Min(1.0, variability/steeringNormalizer)

	return SteeringReport{
		FatigueIndicator: fatigue,
		Pattern:          steeringPattern(fatigue),
		Variability:      variability,
		CorrectionRate:   float64(corrections) / float64(len(angles)),
	}
}

func steeringPattern(fatigue float64) string {
	switch {
	case fatigue > 0.7:
		return PatternErratic
	case fatigue > 0.4:
		return PatternIrregular
	default:
		return PatternNormal
	}
}
