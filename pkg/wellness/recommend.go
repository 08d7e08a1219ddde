package wellness

import (
	"fmt"
	"strings"
)

const (
	AdviceDrowsinessTrigger = 0.7
	AdviceStressTrigger     = 0.8

	maxRecommendations = 5
)

// NeedsAdvice reports whether scores are high enough to ask the text model.
func NeedsAdvice(drowsiness, stress float64) bool {
	return drowsiness > AdviceDrowsinessTrigger || stress > AdviceStressTrigger
}

func AdvicePrompt(drowsiness, stress float64) string {
	return fmt.Sprintf(`Driver monitoring data:
- Drowsiness level: %.2f (0-1 scale)
- Stress level: %.2f (0-1 scale)

Generate 3 immediate, actionable safety recommendations for the driver.
Keep responses concise and focused on safety.`, drowsiness, stress)
}

// ParseAdvice splits model output into one recommendation per line, dropping
// list markers and blank lines.
func ParseAdvice(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		line = trimNumbering(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func trimNumbering(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return line[i+1:]
	}
	return line
}

// Recommendations is the static advice table keyed by score thresholds.
func Recommendations(drowsiness, stress, steeringFatigue float64) []string {
	var recs []string

	switch {
	case drowsiness > 0.8 || stress > 0.9 || steeringFatigue > 0.8:
		recs = append(recs,
			"IMMEDIATE ACTION REQUIRED: Pull over safely now",
			"Take a 15-20 minute break before continuing",
			"Consider ending your journey if possible",
		)
	case drowsiness > 0.6 || stress > 0.7 || steeringFatigue > 0.6:
		recs = append(recs,
			"High risk detected: Find a safe place to stop within 10 minutes",
			"Take a short break and assess your condition",
			"Consider switching drivers if available",
		)
	case drowsiness > 0.4 || stress > 0.5 || steeringFatigue > 0.4:
		recs = append(recs,
			"Moderate risk: Plan a break at the next rest area",
			"Open windows for fresh air or adjust climate control",
			"Stay hydrated and maintain good posture",
		)
	}

	switch {
	case drowsiness > stress && drowsiness > steeringFatigue:
		recs = append(recs, "Primary issue: Drowsiness - Consider a power nap")
	case stress > drowsiness && stress > steeringFatigue:
		recs = append(recs, "Primary issue: Stress - Practice deep breathing exercises")
	case steeringFatigue > drowsiness && steeringFatigue > stress:
		recs = append(recs, "Primary issue: Driving fatigue - Check your grip and posture")
	}

	if len(recs) == 0 {
		recs = append(recs,
			"All systems normal - maintain current safety practices",
			"Continue monitoring your wellness",
			"Stay alert and take breaks as needed",
		)
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
