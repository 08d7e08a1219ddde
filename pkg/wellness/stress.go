package wellness

import (
	"math"
	"sort"
	"strings"
)

const (
	edgeLowThreshold  = 50
	edgeHighThreshold = 150

	baselineStress      = 0.15
	emotionStressFloor  = 0.2
	unknownEmotionScore = 0.3
)

type Emotion struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type StressEstimate struct {
	Score         float64 `json:"score"`
	EdgeDensity   float64 `json:"edge_density"`
	Asymmetry     float64 `json:"asymmetry"`
	BrightnessStd float64 `json:"brightness_std"`
}

// Matched by substring in this order; the first hit wins.
var emotionStress = []struct {
	key    string
	stress float64
}{
	{"angry", 0.9}, {"anger", 0.9},
	{"fear", 0.85},
	{"sad", 0.6},
	{"disgust", 0.7},
	{"surprise", 0.4},
	{"happy", 0.1}, {"happiness", 0.1}, {"joy", 0.1},
	{"neutral", 0.2}, {"calm", 0.15},
	{"anxiety", 0.8}, {"anxious", 0.8},
	{"frustration", 0.75}, {"frustrated", 0.75},
	{"stress", 0.8},
	{"tired", 0.6}, {"fatigue", 0.7},
	{"contempt", 0.75},
}

func EmotionStress(label string) (float64, bool) {
	l := strings.ToLower(label)
	for _, e := range emotionStress {
		if strings.Contains(l, e.key) {
			return e.stress, true
		}
	}
	return unknownEmotionScore, false
}

// StressFromEmotions takes the strongest confidence-weighted stress signal
// among the classifier labels, never below the calm floor.
func StressFromEmotions(emotions []Emotion) float64 {
	best := emotionStressFloor
	for _, e := range emotions {
		s, ok := EmotionStress(e.Label)
		if !ok {
			continue
		}
		best = math.Max(best, s*e.Score)
	}
	return Clamp(best)
}

func PrimaryEmotion(emotions []Emotion) (Emotion, bool) {
	if len(emotions) == 0 {
		return Emotion{}, false
	}
	sorted := make([]Emotion, len(emotions))
	copy(sorted, emotions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return Emotion{Label: strings.ToLower(sorted[0].Label), Score: sorted[0].Score}, true
}

// EstimateStress reads facial tension from edge density, left/right asymmetry
// and brightness variation of the face region.
func EstimateStress(face *Gray) StressEstimate {
	if face.Empty() {
		return StressEstimate{Score: baselineStress}
	}

	edge := face.EdgeDensity(edgeLowThreshold, edgeHighThreshold)
	asym := face.Asymmetry()
	std := face.Std() / 255.0

	score := baselineStress +
		math.Min(edge*2, 0.4) +
		math.Min(asym*3, 0.3) +
		math.Min(std*2, 0.3)

	return StressEstimate{
		Score:         Clamp(score),
		EdgeDensity:   edge,
		Asymmetry:     asym,
		BrightnessStd: std,
	}
}
