package analyticsService

import (
	"fmt"
	"sort"
	"time"

	"SafeDrive/internal/api/analytics"
	"SafeDrive/internal/entity"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindNumber
	kindTime
)

// collections lists every table the data endpoints may touch and the columns
// a delete filter may compare.
var collections = map[string]map[string]fieldKind{
	"monitoring_sessions": {
		"id":               kindText,
		"session_id":       kindText,
		"timestamp":        kindTime,
		"drowsiness_score": kindNumber,
		"stress_level":     kindNumber,
		"faces_detected":   kindNumber,
		"drowsiness_level": kindText,
		"stress_category":  kindText,
	},
	"steering_analyses": {
		"id":                kindText,
		"fatigue_indicator": kindNumber,
		"pattern":           kindText,
		"variability":       kindNumber,
		"correction_rate":   kindNumber,
		"sample_count":      kindNumber,
		"created_at":        kindTime,
	},
}

var operators = map[string]bool{
	"$eq": true, "$ne": true, "$lt": true, "$lte": true, "$gt": true, "$gte": true,
}

func collectionNames() []string {
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseFilter turns a Mongo-style filter document into conditions. A plain
// value means equality; an object maps operators to values, e.g.
// {"timestamp": {"$lt": "2024-01-01T00:00:00Z"}}.
func parseFilter(collection string, filter map[string]interface{}) ([]entity.FilterCondition, error) {
	fields, ok := collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", analytics.ErrUnknownCollection, collection)
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conditions []entity.FilterCondition
	for _, field := range keys {
		kind, ok := fields[field]
		if !ok {
			return nil, fmt.Errorf("%w: %s", analytics.ErrUnknownField, field)
		}

		ops, isObject := filter[field].(map[string]interface{})
		if !isObject {
			ops = map[string]interface{}{"$eq": filter[field]}
		}

		opKeys := make([]string, 0, len(ops))
		for op := range ops {
			opKeys = append(opKeys, op)
		}
		sort.Strings(opKeys)

		if len(opKeys) == 0 {
			return nil, fmt.Errorf("%w: %s has no operators", analytics.ErrInvalidFilterValue, field)
		}

		for _, op := range opKeys {
			if !operators[op] {
				return nil, fmt.Errorf("%w: %s", analytics.ErrUnsupportedOperator, op)
			}

			value, err := convertValue(kind, ops[op])
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %s", analytics.ErrInvalidFilterValue, field, err.Error())
			}

			conditions = append(conditions, entity.FilterCondition{
				Field:    field,
				Operator: op,
				Value:    value,
			})
		}
	}

	return conditions, nil
}

func convertValue(kind fieldKind, v interface{}) (interface{}, error) {
	switch kind {
	case kindText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil
	case kindNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
		return nil, fmt.Errorf("expected number, got %T", v)
	case kindTime:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected RFC3339 timestamp, got %T", v)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("expected RFC3339 timestamp: %w", err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown field kind %d", kind)
}
