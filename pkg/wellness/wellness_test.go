package wellness

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformImage(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.3))
	assert.Equal(t, 1.0, Clamp(1.7))
	assert.Equal(t, 0.42, Clamp(0.42))
}

func TestSmootherUpdate(t *testing.T) {
	s := NewSmoother(DrowsinessAlpha, DrowsinessInitial)

	got := s.Update(0.9)
	assert.InDelta(t, 0.3*0.9+0.7*0.1, got, 1e-9)
	assert.InDelta(t, got, s.Value(), 1e-9)

	got = s.Update(0.9)
	assert.InDelta(t, 0.3*0.9+0.7*0.34, got, 1e-9)
}

func TestSmootherStaysInRange(t *testing.T) {
	s := NewSmoother(0.5, 0.5)
	for i := 0; i < 20; i++ {
		v := s.Update(5)
		assert.LessOrEqual(t, v, 1.0)
	}
	for i := 0; i < 20; i++ {
		v := s.Update(-5)
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestBlend(t *testing.T) {
	assert.InDelta(t, 0.2, Blend(0.2, 0.9, 0, 0.6), 1e-9, "zero confidence keeps heuristic")
	assert.InDelta(t, 0.2+0.6*(0.9-0.2), Blend(0.2, 0.9, 1, 0.6), 1e-9)
	assert.InDelta(t, 0.9, Blend(0.2, 0.9, 1, 1), 1e-9)
}

func TestLevels(t *testing.T) {
	assert.Equal(t, LevelCritical, DrowsinessLevel(0.81))
	assert.Equal(t, LevelHigh, DrowsinessLevel(0.8))
	assert.Equal(t, LevelModerate, DrowsinessLevel(0.5))
	assert.Equal(t, LevelLow, DrowsinessLevel(0.3))
	assert.Equal(t, LevelAlert, DrowsinessLevel(0.2))
	assert.Equal(t, LevelNormal, StressLevel(0.1))
}

func TestHistoryMetrics(t *testing.T) {
	h := NewHistory(100)
	assert.Equal(t, TemporalMetrics{Trend: TrendStable}, h.Metrics())

	h.Add(0.4)
	h.Add(0.5)
	m := h.Metrics()
	assert.Equal(t, TrendStable, m.Trend)
	assert.Equal(t, 0.5, m.AvgLast10)

	for i := 0; i < 5; i++ {
		h.Add(0.1)
	}
	for i := 0; i < 5; i++ {
		h.Add(0.6)
	}
	m = h.Metrics()
	assert.Equal(t, TrendIncreasing, m.Trend)
	assert.InDelta(t, 0.35, m.AvgLast10, 1e-9)
	assert.InDelta(t, 0.0625, m.RecentVariance, 1e-9)

	for i := 0; i < 5; i++ {
		h.Add(0.2)
	}
	assert.Equal(t, TrendDecreasing, h.Metrics().Trend)
}

func TestHistoryIsBounded(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 10; i++ {
		h.Add(float64(i) / 10)
	}
	assert.Equal(t, 3, h.Len())
}

func TestChannelObserve(t *testing.T) {
	c := NewChannel(StressAlpha, StressInitial, 10)
	score, metrics := c.Observe(0.6)
	assert.InDelta(t, 0.25*0.6+0.75*0.2, score, 1e-9)
	assert.Equal(t, score, metrics.AvgLast10)
	assert.Equal(t, score, c.Value())
	assert.Equal(t, metrics, c.Metrics())
}

func TestNewGrayClipsToImage(t *testing.T) {
	img := uniformImage(10, 10, 200)

	g := NewGray(img, Rect{X: 5, Y: 5, W: 20, H: 20})
	assert.Equal(t, 5, g.W)
	assert.Equal(t, 5, g.H)
	assert.InDelta(t, 200, g.Mean(), 1e-9)

	empty := NewGray(img, Rect{X: 50, Y: 50, W: 5, H: 5})
	assert.True(t, empty.Empty())
	assert.Equal(t, 0.0, empty.Mean())
}

func TestGrayFromColorImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	g := NewGray(img, Rect{W: 4, H: 4})
	assert.InDelta(t, 255, g.Mean(), 1e-9)
	assert.Equal(t, 0.0, g.Std())
}

func TestEdgeDensityAndAsymmetry(t *testing.T) {
	flat := NewGray(uniformImage(20, 20, 90), Rect{W: 20, H: 20})
	assert.Equal(t, 0.0, flat.EdgeDensity(50, 150))
	assert.Equal(t, 0.0, flat.Asymmetry())

	img := uniformImage(20, 20, 0)
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	split := NewGray(img, Rect{W: 20, H: 20})
	assert.Greater(t, split.EdgeDensity(50, 150), 0.0)
	assert.InDelta(t, 1.0, split.Asymmetry(), 1e-9)
}

func TestEstimateDrowsiness(t *testing.T) {
	face := NewGray(uniformImage(100, 100, 80), Rect{W: 100, H: 100})

	open := EstimateDrowsiness(face, []Rect{{X: 10, Y: 20, W: 20, H: 10}, {X: 60, Y: 20, W: 20, H: 10}})
	assert.Equal(t, 2, open.EyesDetected)
	assert.InDelta(t, 0.5, open.AvgEAR, 1e-9)
	assert.InDelta(t, 0.1*0.7+0.1*0.3, open.Score, 1e-9)

	closed := EstimateDrowsiness(face, []Rect{{X: 10, Y: 20, W: 20, H: 2}, {X: 60, Y: 20, W: 20, H: 2}})
	assert.InDelta(t, 0.9*0.7+0.1*0.3, closed.Score, 1e-9)

	none := EstimateDrowsiness(face, nil)
	assert.Equal(t, 0.5, none.Score)
}

func TestEstimateDrowsinessBrightEyes(t *testing.T) {
	face := NewGray(uniformImage(100, 100, 130), Rect{W: 100, H: 100})
	est := EstimateDrowsiness(face, []Rect{{X: 0, Y: 0, W: 40, H: 7}, {X: 50, Y: 0, W: 40, H: 7}})
	assert.InDelta(t, 0.6*0.7+0.7*0.3, est.Score, 1e-9)
	assert.InDelta(t, 130, est.EyeIntensity, 1e-9)
}

func TestEyeAspectRatioZeroWidth(t *testing.T) {
	assert.Equal(t, 0.3, EyeAspectRatio(Rect{W: 0, H: 10}))
}

func TestVisionStateScore(t *testing.T) {
	s, ok := VisionStateScore("Very Drowsy")
	require.True(t, ok)
	assert.Equal(t, 0.85, s)

	_, ok = VisionStateScore("confused")
	assert.False(t, ok)
}

func TestStressFromEmotions(t *testing.T) {
	assert.Equal(t, 0.2, StressFromEmotions(nil))
	assert.InDelta(t, 0.9*0.8, StressFromEmotions([]Emotion{{"neutral", 0.1}, {"ANGRY", 0.8}}), 1e-9)
	assert.Equal(t, 0.2, StressFromEmotions([]Emotion{{"focused", 0.9}}))
	assert.InDelta(t, 0.6, StressFromEmotions([]Emotion{{"sadness", 1}}), 1e-9)
}

func TestPrimaryEmotion(t *testing.T) {
	_, ok := PrimaryEmotion(nil)
	assert.False(t, ok)

	e, ok := PrimaryEmotion([]Emotion{{"Neutral", 0.3}, {"Fear", 0.6}})
	require.True(t, ok)
	assert.Equal(t, "fear", e.Label)
}

func TestEstimateStress(t *testing.T) {
	flat := NewGray(uniformImage(40, 40, 120), Rect{W: 40, H: 40})
	est := EstimateStress(flat)
	assert.InDelta(t, 0.15, est.Score, 1e-9)

	img := uniformImage(40, 40, 0)
	for y := 0; y < 40; y++ {
		for x := 20; x < 40; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	tense := EstimateStress(NewGray(img, Rect{W: 40, H: 40}))
	assert.Greater(t, tense.Score, est.Score)
	assert.LessOrEqual(t, tense.Score, 1.0)

	assert.Equal(t, 0.15, EstimateStress(&Gray{}).Score)
}

func TestAnalyzeSteering(t *testing.T) {
	empty := AnalyzeSteering(nil)
	assert.Equal(t, PatternInsufficientData, empty.Pattern)
	assert.Equal(t, 0.0, empty.FatigueIndicator)

	steady := AnalyzeSteering([]SteeringSample{{Angle: 1}, {Angle: 1}, {Angle: 1}})
	assert.Equal(t, PatternNormal, steady.Pattern)
	assert.Equal(t, 0.0, steady.Variability)

	wild := AnalyzeSteering([]SteeringSample{{Angle: -90}, {Angle: 90}, {Angle: -90}, {Angle: 90}})
	assert.InDelta(t, 90, wild.Variability, 1e-9)
	assert.InDelta(t, 0.9, wild.FatigueIndicator, 1e-9)
	assert.Equal(t, PatternErratic, wild.Pattern)
	assert.InDelta(t, 0.75, wild.CorrectionRate, 1e-9)

	mid := AnalyzeSteering([]SteeringSample{{Angle: -50}, {Angle: 50}})
	assert.Equal(t, PatternIrregular, mid.Pattern)
}

func TestRecommendations(t *testing.T) {
	critical := Recommendations(0.85, 0.1, 0)
	require.Len(t, critical, 4)
	assert.Contains(t, critical[0], "IMMEDIATE ACTION REQUIRED")
	assert.Contains(t, critical[3], "Drowsiness")

	stress := Recommendations(0.1, 0.75, 0)
	assert.Contains(t, stress[0], "High risk")
	assert.Contains(t, stress[3], "Stress")

	normal := Recommendations(0, 0, 0)
	assert.Len(t, normal, 3)
	assert.Contains(t, normal[0], "All systems normal")

	assert.LessOrEqual(t, len(Recommendations(1, 1, 1)), 5)
}

func TestNeedsAdvice(t *testing.T) {
	assert.False(t, NeedsAdvice(0.7, 0.8))
	assert.True(t, NeedsAdvice(0.71, 0))
	assert.True(t, NeedsAdvice(0, 0.81))
}

func TestParseAdvice(t *testing.T) {
	text := "1. Pull over now\n\n- Drink water\n* Stretch your legs\n   "
	assert.Equal(t, []string{"Pull over now", "Drink water", "Stretch your legs"}, ParseAdvice(text))
}
