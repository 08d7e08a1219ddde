package monitoringRepository

const (
	queryCreateRecord = `
		INSERT INTO monitoring_sessions (
			id,
			session_id,
			timestamp,
			drowsiness_score,
			stress_level,
			faces_detected,
			drowsiness_level,
			stress_category,
			details
		) VALUES (
			:id,
			:session_id,
			:timestamp,
			:drowsiness_score,
			:stress_level,
			:faces_detected,
			:drowsiness_level,
			:stress_category,
			:details
		)
	`

	queryCreateSteeringAnalysis = `
		INSERT INTO steering_analyses (
			id,
			fatigue_indicator,
			pattern,
			variability,
			correction_rate,
			sample_count,
			created_at
		) VALUES (
			:id,
			:fatigue_indicator,
			:pattern,
			:variability,
			:correction_rate,
			:sample_count,
			:created_at
		)
	`
)
