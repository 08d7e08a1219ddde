package monitoringRepository

import (
	"context"
	"fmt"

	"SafeDrive/internal/entity"
	contextPkg "SafeDrive/pkg/context"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (r *monitoringRepository) CreateRecord(ctx context.Context, record entity.MonitoringRecord) error {
	requestID := contextPkg.GetRequestID(ctx)

	details, err := json.Marshal(record.Details)
	if err != nil {
		return fmt.Errorf("failed to encode monitoring details: %w", err)
	}

	argsKV := map[string]interface{}{
		"id":               record.ID,
		"session_id":       record.SessionID,
		"timestamp":        record.Timestamp,
		"drowsiness_score": record.DrowsinessScore,
		"stress_level":     record.StressLevel,
		"faces_detected":   record.FacesDetected,
		"drowsiness_level": string(record.DrowsinessLevel),
		"stress_category":  string(record.StressCategory),
		"details":          string(details),
	}

	query, args, err := sqlx.Named(queryCreateRecord, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateRecord")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": record.SessionID,
			"error":      err.Error(),
		}).Error("Database error when creating monitoring record")
		return err
	}

	return nil
}

func (r *monitoringRepository) CreateSteeringAnalysis(ctx context.Context, analysis entity.SteeringAnalysis) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":                analysis.ID,
		"fatigue_indicator": analysis.FatigueIndicator,
		"pattern":           analysis.Pattern,
		"variability":       analysis.Variability,
		"correction_rate":   analysis.CorrectionRate,
		"sample_count":      analysis.SampleCount,
		"created_at":        analysis.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateSteeringAnalysis, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateSteeringAnalysis")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating steering analysis")
		return err
	}

	return nil
}
