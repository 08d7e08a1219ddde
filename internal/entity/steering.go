package entity

import "time"

type SteeringAnalysis struct {
	ID               string
	FatigueIndicator float64
	Pattern          string
	Variability      float64
	CorrectionRate   float64
	SampleCount      int
	CreatedAt        time.Time
}
