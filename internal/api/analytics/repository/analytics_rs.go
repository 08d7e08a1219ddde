package analyticsRepository

import (
	"context"
	"fmt"
	"strings"

	"SafeDrive/internal/entity"
	contextPkg "SafeDrive/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// buildDelete renders a DELETE for already validated conditions. Identifiers
// are quoted and every value is bound as a parameter.
func buildDelete(table string, conditions []entity.FilterCondition) (string, map[string]interface{}, error) {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(pq.QuoteIdentifier(table))

	argsKV := make(map[string]interface{}, len(conditions))
	for i, c := range conditions {
		op, ok := operatorSQL[c.Operator]
		if !ok {
			return "", nil, fmt.Errorf("unsupported operator %q", c.Operator)
		}

		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}

		name := fmt.Sprintf("v%d", i)
		fmt.Fprintf(&b, "%s %s :%s", pq.QuoteIdentifier(c.Field), op, name)
		argsKV[name] = c.Value
	}

	return b.String(), argsKV, nil
}

func (r *analyticsRepository) DeleteWhere(ctx context.Context, table string, conditions []entity.FilterCondition) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, argsKV, err := buildDelete(table, conditions)
	if err != nil {
		return 0, err
	}

	query, args, err := sqlx.Named(query, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for DeleteWhere")
		return 0, err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"table":      table,
			"error":      err.Error(),
		}).Error("Database error when deleting rows")
		return 0, err
	}

	return res.RowsAffected()
}

func (r *analyticsRepository) CountRows(ctx context.Context, table string) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM " + pq.QuoteIdentifier(table)

	if err := sqlx.GetContext(ctx, r.q, &count, query); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"table":      table,
			"error":      err.Error(),
		}).Error("Database error when counting rows")
		return 0, err
	}

	return count, nil
}

func (r *analyticsRepository) GetDailyAnalytics(ctx context.Context, days int) ([]entity.DailyAnalytics, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryGetDailyAnalytics, map[string]interface{}{"days": days})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for GetDailyAnalytics")
		return nil, err
	}
	query = r.q.Rebind(query)

	analytics := []entity.DailyAnalytics{}
	if err := sqlx.SelectContext(ctx, r.q, &analytics, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when aggregating daily analytics")
		return nil, err
	}

	return analytics, nil
}
