package wellness

import "strings"

const defaultEyeAspectRatio = 0.3

type DrowsinessEstimate struct {
	Score        float64 `json:"score"`
	EyesDetected int     `json:"eyes_detected"`
	AvgEAR       float64 `json:"avg_ear"`
	EyeIntensity float64 `json:"eye_intensity"`
}

// EyeAspectRatio is height over width of an eye box.
func EyeAspectRatio(eye Rect) float64 {
	if eye.W <= 0 {
		return defaultEyeAspectRatio
	}
	return float64(eye.H) / float64(eye.W)
}

func earDrowsiness(ear float64) float64 {
	switch {
	case ear < 0.15:
		return 0.9
	case ear < 0.2:
		return 0.6
	case ear < 0.25:
		return 0.3
	default:
		return 0.1
	}
}

// Closed or squinting eyes read brighter than open ones under a webcam.
func intensityDrowsiness(intensity float64) float64 {
	switch {
	case intensity > 120:
		return 0.7
	case intensity > 100:
		return 0.4
	default:
		return 0.1
	}
}

// EstimateDrowsiness scores a single frame from the face region and the eye
// boxes found inside it. Fewer than two eyes means the driver is looking away
// or has their eyes shut, which scores 0.5.
func EstimateDrowsiness(face *Gray, eyes []Rect) DrowsinessEstimate {
	if len(eyes) < 2 {
		return DrowsinessEstimate{Score: 0.5, EyesDetected: len(eyes)}
	}

	var totalEAR float64
	var intensities []float64
	for _, eye := range eyes {
		totalEAR += EyeAspectRatio(eye)

		roi := face.Sub(eye)
		if !roi.Empty() {
			intensities = append(intensities, roi.Mean())
		}
	}

	avgEAR := totalEAR / float64(len(eyes))
	intensity := 128.0
	if len(intensities) > 0 {
		intensity = mean(intensities)
	}

	return DrowsinessEstimate{
		Score:        Clamp(earDrowsiness(avgEAR)*0.7 + intensityDrowsiness(intensity)*0.3),
		EyesDetected: len(eyes),
		AvgEAR:       avgEAR,
		EyeIntensity: intensity,
	}
}

var visionStates = map[string]float64{
	"alert":           0.1,
	"awake":           0.1,
	"slightly_drowsy": 0.4,
	"drowsy":          0.7,
	"very_drowsy":     0.85,
	"eyes_closed":     0.95,
	"asleep":          0.95,
}

// VisionStateScore maps a vision-language model's qualitative state onto the
// drowsiness scale.
func VisionStateScore(state string) (float64, bool) {
	key := strings.ToLower(strings.TrimSpace(state))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	score, ok := visionStates[key]
	return score, ok
}
