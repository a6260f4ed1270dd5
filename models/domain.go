// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Operator is a comparison operator allowed in a domain condition.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpIn           Operator = "in"
	OpLike         Operator = "like"
	OpILike        Operator = "ilike"
)

// ErrInvalidCondition is returned when a condition cannot be decoded.
var ErrInvalidCondition = errors.New("invalid domain condition")

// Valid reports whether op is one of the supported operators.
func (op Operator) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpGreater, OpGreaterEqual, OpLess, OpLessEqual, OpIn, OpLike, OpILike:
		return true
	}
	return false
}

// Condition is a single [field, operator, value] filter triple.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// Where builds a condition.
func Where(field string, op Operator, value any) Condition {
	return Condition{Field: field, Operator: op, Value: value}
}

func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Field, string(c.Operator), c.Value})
}

func (c *Condition) UnmarshalJSON(b []byte) error {
	var triple []json.RawMessage
	if err := json.Unmarshal(b, &triple); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCondition, err)
	}
	if len(triple) != 3 {
		return fmt.Errorf("%w: expected 3 elements, got %d", ErrInvalidCondition, len(triple))
	}

	var field, op string
	if err := json.Unmarshal(triple[0], &field); err != nil {
		return fmt.Errorf("%w: field: %w", ErrInvalidCondition, err)
	}
	if err := json.Unmarshal(triple[1], &op); err != nil {
		return fmt.Errorf("%w: operator: %w", ErrInvalidCondition, err)
	}
	var value any
	if err := json.Unmarshal(triple[2], &value); err != nil {
		return fmt.Errorf("%w: value: %w", ErrInvalidCondition, err)
	}

	c.Field = field
	c.Operator = Operator(op)
	c.Value = value
	return nil
}

// Domain is a list of conditions combined with AND. A nil domain matches
// every record.
type Domain []Condition

// IDGreaterThan is the incremental-fetch filter for watermark.
func IDGreaterThan(watermark int64) Domain {
	return Domain{Where("id", OpGreater, watermark)}
}

// IDEquals selects a single record by identity.
func IDEquals(id int64) Domain {
	return Domain{Where("id", OpEqual, id)}
}

// IDIn selects records whose identity is one of ids.
func IDIn(ids []int64) Domain {
	return Domain{Where("id", OpIn, ids)}
}
