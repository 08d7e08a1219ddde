package wellness

type Trend string

const (
	TrendStable     Trend = "stable"
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
)

const DefaultHistoryLimit = 100

type TemporalMetrics struct {
	Trend          Trend   `json:"temporal_trend"`
	AvgLast10      float64 `json:"avg_score_last_10"`
	RecentVariance float64 `json:"recent_variance"`
}

// History keeps the most recent scores of one metric.
type History struct {
	limit  int
	scores []float64
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

func (h *History) Add(score float64) {
	h.scores = append(h.scores, score)
	if len(h.scores) > h.limit {
		h.scores = h.scores[len(h.scores)-h.limit:]
	}
}

func (h *History) Len() int {
	return len(h.scores)
}

func (h *History) Metrics() TemporalMetrics {
	n := len(h.scores)
	if n == 0 {
		return TemporalMetrics{Trend: TrendStable}
	}
	if n < 3 {
		return TemporalMetrics{Trend: TrendStable, AvgLast10: h.scores[n-1]}
	}

	recent := tail(h.scores, 10)
	metrics := TemporalMetrics{
		Trend:          TrendStable,
		AvgLast10:      mean(recent),
		RecentVariance: variance(recent),
	}

	if n >= 5 {
		last5 := h.scores[n-5:]
		older := last5
		if n >= 10 {
			older = h.scores[n-10 : n-5]
		}

		diff := mean(last5) - mean(older)
		switch {
		case diff > 0.1:
			metrics.Trend = TrendIncreasing
		case diff < -0.1:
			metrics.Trend = TrendDecreasing
		}
	}

	return metrics
}

// Channel couples smoothing with history for one metric of one session.
type Channel struct {
	smoother *Smoother
	history  *History
}

func NewChannel(alpha, initial float64, historyLimit int) *Channel {
	return &Channel{
		smoother: NewSmoother(alpha, initial),
		history:  NewHistory(historyLimit),
	}
}

func (c *Channel) Observe(current float64) (float64, TemporalMetrics) {
	score := c.smoother.Update(current)
	c.history.Add(score)
	return score, c.history.Metrics()
}

func (c *Channel) Value() float64 {
	return c.smoother.Value()
}

// Metrics reports the temporal metrics without recording a new score.
func (c *Channel) Metrics() TemporalMetrics {
	return c.history.Metrics()
}

func tail(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance is the population variance.
func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return sum / float64(len(xs))
}
