// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"fmt"
	"regexp"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-record-cache/models"
)

const (
	createRecord = `INSERT INTO records (model, fields) VALUES ($1, $2::jsonb) RETURNING id;`

	updateRecord = `
		UPDATE records
		SET fields = fields || $1::jsonb, updated_at = NOW()
		WHERE model = $2 AND id = $3;`

	deleteRecord = `DELETE FROM records WHERE model = $1 AND id = $2;`
)

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	// field names are spliced into JSON path expressions
	fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// buildSearchQuery translates a domain into a SELECT over records of model.
// "id" addresses the column; any other field addresses the JSONB document,
// cast by the Go type of the compared value.
func buildSearchQuery(model string, domain models.Domain) (string, []any, error) {
	builder := psql.
		Select("id", "fields").
		From("records").
		Where(sq.Eq{"model": model}).
		OrderBy("id")

	for i, cond := range domain {
		pred, err := conditionPredicate(cond)
		if err != nil {
			return "", nil, fmt.Errorf("%w: condition #%d: %w", ErrInvalidQuery, i, err)
		}
		builder = builder.Where(pred)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func conditionPredicate(cond models.Condition) (sq.Sqlizer, error) {
	if !cond.Operator.Valid() {
		return nil, fmt.Errorf("unsupported operator %q", cond.Operator)
	}

	column, value, err := conditionOperand(cond)
	if err != nil {
		return nil, err
	}

	switch cond.Operator {
	case models.OpEqual:
		return sq.Eq{column: value}, nil
	case models.OpNotEqual:
		return sq.NotEq{column: value}, nil
	case models.OpGreater:
		return sq.Gt{column: value}, nil
	case models.OpGreaterEqual:
		return sq.GtOrEq{column: value}, nil
	case models.OpLess:
		return sq.Lt{column: value}, nil
	case models.OpLessEqual:
		return sq.LtOrEq{column: value}, nil
	case models.OpIn:
		return sq.Eq{column: value}, nil
	case models.OpLike:
		return sq.Like{column: value}, nil
	case models.OpILike:
		return sq.ILike{column: value}, nil
	}
	return nil, fmt.Errorf("unsupported operator %q", cond.Operator)
}

// conditionOperand returns the SQL expression for the field and the value
// normalized for it.
func conditionOperand(cond models.Condition) (string, any, error) {
	if cond.Operator == models.OpIn {
		if _, ok := cond.Value.([]any); !ok {
			if ids, ok := cond.Value.([]int64); ok {
				values := make([]any, len(ids))
				for i, id := range ids {
					values[i] = id
				}
				cond.Value = values
			} else {
				return "", nil, fmt.Errorf("operator in needs a list, got %T", cond.Value)
			}
		}
	}

	if cond.Field == "id" {
		value, err := idValue(cond.Value)
		return "id", value, err
	}

	if !fieldNamePattern.MatchString(cond.Field) {
		return "", nil, fmt.Errorf("invalid field name %q", cond.Field)
	}

	if cond.Operator == models.OpLike || cond.Operator == models.OpILike {
		return jsonText(cond.Field), cond.Value, nil
	}

	sample := cond.Value
	if list, ok := cond.Value.([]any); ok && len(list) > 0 {
		sample = list[0]
	}

	switch sample.(type) {
	case float64, float32, int, int64, int32, json.Number:
		return "(" + jsonText(cond.Field) + ")::numeric", cond.Value, nil
	case bool:
		return "(" + jsonText(cond.Field) + ")::boolean", cond.Value, nil
	default:
		return jsonText(cond.Field), cond.Value, nil
	}
}

func jsonText(field string) string {
	return "fields->>'" + field + "'"
}

// idValue converts JSON numbers to int64 for comparison with the id column.
func idValue(v any) (any, error) {
	switch id := v.(type) {
	case []any:
		out := make([]int64, len(id))
		for i, item := range id {
			n, err := idValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = n.(int64)
		}
		return out, nil
	case float64:
		return int64(id), nil
	case int:
		return int64(id), nil
	case int64:
		return id, nil
	case json.Number:
		return id.Int64()
	default:
		return nil, fmt.Errorf("id must be a number, got %T", v)
	}
}

// projectFields keeps only the requested fields; id is always present.
func projectFields(id int64, doc map[string]any, fields []string) map[string]any {
	if len(fields) == 0 {
		out := make(map[string]any, len(doc)+1)
		for k, v := range doc {
			out[k] = v
		}
		out["id"] = id
		return out
	}

	out := make(map[string]any, len(fields)+1)
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	out["id"] = id
	return out
}
