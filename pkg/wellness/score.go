package wellness

// Clamp bounds a score to [0,1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Smoother is an exponential moving average over per-frame scores.
type Smoother struct {
	alpha float64
	prev  float64
}

func NewSmoother(alpha, initial float64) *Smoother {
	return &Smoother{
		alpha: Clamp(alpha),
		prev:  Clamp(initial),
	}
}

func (s *Smoother) Update(current float64) float64 {
	next := Clamp(s.alpha*current + (1-s.alpha)*s.prev)
	s.prev = next
	return next
}

func (s *Smoother) Value() float64 {
	return s.prev
}

// Blend pulls the heuristic score toward an external judgment in proportion to
// weight and the judgment's own confidence.
func Blend(heuristic, judged, confidence, weight float64) float64 {
	w := Clamp(weight) * Clamp(confidence)
	return Clamp(heuristic + w*(judged-heuristic))
}

const (
	DrowsinessAlpha   = 0.3
	DrowsinessInitial = 0.1
	DrowsinessOnError = 0.1

	StressAlpha   = 0.25
	StressInitial = 0.2
	StressOnError = 0.3
)
