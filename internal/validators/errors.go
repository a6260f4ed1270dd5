// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyModel       = errors.New("model is required")
	ErrModelNotAllowed  = errors.New("model is not allowed")
	ErrEmptyFields      = errors.New("at least one field is required")
	ErrEmptyValues      = errors.New("at least one value must be provided for update")
	ErrInvalidID        = errors.New("invalid record id")
	ErrInvalidFieldName = errors.New("invalid field name")
	ErrReservedField    = errors.New("field is reserved")
	ErrInvalidOperator  = errors.New("unsupported domain operator")
	ErrInvalidOperand   = errors.New("invalid domain value")
)
