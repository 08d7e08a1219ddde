package analyticsRepository

const (
	queryGetDailyAnalytics = `
		SELECT
			to_char(date_trunc('day', timestamp), 'YYYY-MM-DD') AS day,
			AVG(drowsiness_score) AS avg_drowsiness,
			AVG(stress_level) AS avg_stress,
			COUNT(*) AS session_count
		FROM monitoring_sessions
		GROUP BY day
		ORDER BY day DESC
		LIMIT :days
	`
)

var operatorSQL = map[string]string{
	"$eq":  "=",
	"$ne":  "<>",
	"$lt":  "<",
	"$lte": "<=",
	"$gt":  ">",
	"$gte": ">=",
}
