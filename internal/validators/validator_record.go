// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/MKhiriev/go-record-cache/models"
)

// Field name constants used to specify which parts of a payload should be
// validated. Passing them to Validate restricts validation to that subset.
const (
	// FieldModel targets the collection name.
	FieldModel = "model"

	// FieldFields targets the field map of a create payload or the
	// projection list of a search payload.
	FieldFields = "fields"

	// FieldValues targets the patch of an update payload.
	FieldValues = "values"

	// FieldID targets the record identity of update and delete payloads.
	FieldID = "id"

	// FieldDomain targets the filter of a search payload.
	FieldDomain = "domain"
)

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RecordValidator implements the Validator interface for the proxy payloads:
// CreateData, SearchData, UpdateData and DeleteData. Both value and pointer
// forms are accepted.
type RecordValidator struct {
	// allowed is nil when every model is allowed
	allowed map[string]struct{}
}

// NewRecordValidator returns a Validator restricted to allowedModels. An
// empty list allows every model.
func NewRecordValidator(allowedModels []string) Validator {
	v := &RecordValidator{}
	if len(allowedModels) > 0 {
		v.allowed = make(map[string]struct{}, len(allowedModels))
		for _, m := range allowedModels {
			v.allowed[m] = struct{}{}
		}
	}
	return v
}

// Validate dispatches on the dynamic type of obj. Returns ErrUnsupportedType
// for anything that is not a proxy payload.
func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CreateData:
		return v.validateCreate(value, fields...)
	case *models.CreateData:
		return v.validateCreate(*value, fields...)

	case models.SearchData:
		return v.validateSearch(value, fields...)
	case *models.SearchData:
		return v.validateSearch(*value, fields...)

	case models.UpdateData:
		return v.validateUpdate(value, fields...)
	case *models.UpdateData:
		return v.validateUpdate(*value, fields...)

	case models.DeleteData:
		return v.validateDelete(value, fields...)
	case *models.DeleteData:
		return v.validateDelete(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RecordValidator) validateModel(model string) error {
	if model == "" {
		return ErrEmptyModel
	}
	if v.allowed == nil {
		return nil
	}
	if _, ok := v.allowed[model]; !ok {
		return fmt.Errorf("%w: %q", ErrModelNotAllowed, model)
	}
	return nil
}

func (v *RecordValidator) validateCreate(data models.CreateData, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldModel, FieldFields}
	}

	for _, f := range fields {
		switch f {
		case FieldModel:
			if err := v.validateModel(data.Model); err != nil {
				return err
			}
		case FieldFields:
			if len(data.Fields) == 0 {
				return ErrEmptyFields
			}
			if err := validateWritable(data.Fields); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateSearch(data models.SearchData, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldModel, FieldDomain, FieldFields}
	}

	for _, f := range fields {
		switch f {
		case FieldModel:
			if err := v.validateModel(data.Model); err != nil {
				return err
			}
		case FieldDomain:
			for i, cond := range data.Domain {
				if err := validateCondition(cond); err != nil {
					return fmt.Errorf("condition #%d: %w", i, err)
				}
			}
		case FieldFields:
			for _, name := range data.Fields {
				if !fieldNamePattern.MatchString(name) {
					return fmt.Errorf("%w: %q", ErrInvalidFieldName, name)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateUpdate(data models.UpdateData, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldModel, FieldID, FieldValues}
	}

	for _, f := range fields {
		switch f {
		case FieldModel:
			if err := v.validateModel(data.Model); err != nil {
				return err
			}
		case FieldID:
			if data.ID <= 0 {
				return ErrInvalidID
			}
		case FieldValues:
			if len(data.Values) == 0 {
				return ErrEmptyValues
			}
			if err := validateWritable(data.Values); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateDelete(data models.DeleteData, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldModel, FieldID}
	}

	for _, f := range fields {
		switch f {
		case FieldModel:
			if err := v.validateModel(data.Model); err != nil {
				return err
			}
		case FieldID:
			if data.ID <= 0 {
				return ErrInvalidID
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateWritable checks the keys of a create or update map. The identity
// is assigned by the store and cannot be written.
func validateWritable(values map[string]any) error {
	for name := range values {
		if name == "id" {
			return fmt.Errorf("%w: %q", ErrReservedField, name)
		}
		if !fieldNamePattern.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidFieldName, name)
		}
	}
	return nil
}

func validateCondition(cond models.Condition) error {
	if !fieldNamePattern.MatchString(cond.Field) {
		return fmt.Errorf("%w: %q", ErrInvalidFieldName, cond.Field)
	}
	if !cond.Operator.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOperator, cond.Operator)
	}

	switch cond.Operator {
	case models.OpIn:
		switch list := cond.Value.(type) {
		case []any:
			for _, item := range list {
				if !isScalar(item) {
					return fmt.Errorf("%w: in list holds %T", ErrInvalidOperand, item)
				}
			}
		case []int64:
		default:
			return fmt.Errorf("%w: in needs a list, got %T", ErrInvalidOperand, cond.Value)
		}
	case models.OpLike, models.OpILike:
		if _, ok := cond.Value.(string); !ok {
			return fmt.Errorf("%w: %s needs a string, got %T", ErrInvalidOperand, cond.Operator, cond.Value)
		}
	default:
		if !isScalar(cond.Value) {
			return fmt.Errorf("%w: %T", ErrInvalidOperand, cond.Value)
		}
	}

	if cond.Field == "id" && cond.Operator != models.OpIn && !isNumber(cond.Value) {
		return fmt.Errorf("%w: id must be a number", ErrInvalidOperand)
	}
	return nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	return isNumber(v)
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return true
	}
	return false
}
