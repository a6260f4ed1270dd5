// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-record-cache/internal/validators"
	"github.com/MKhiriev/go-record-cache/models"
)

type RecordValidationService struct {
	inner     RecordService
	validator validators.Validator
}

// NewRecordValidationService returns a wrapper that rejects payloads for
// models outside allowedModels and malformed fields, ids or domains.
func NewRecordValidationService(allowedModels []string) RecordServiceWrapper {
	return &RecordValidationService{
		validator: validators.NewRecordValidator(allowedModels),
	}
}

func (v *RecordValidationService) Handle(ctx context.Context, req models.ProxyRequest) (models.ProxyResponse, error) {
	return dispatch(ctx, v, req)
}

func (v *RecordValidationService) Create(ctx context.Context, data models.CreateData) (int64, error) {
	if err := v.validator.Validate(ctx, data); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Create(ctx, data)
}

func (v *RecordValidationService) Search(ctx context.Context, data models.SearchData) ([]map[string]any, error) {
	if err := v.validator.Validate(ctx, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Search(ctx, data)
}

func (v *RecordValidationService) Update(ctx context.Context, data models.UpdateData) (bool, error) {
	if err := v.validator.Validate(ctx, data); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Update(ctx, data)
}

func (v *RecordValidationService) Delete(ctx context.Context, data models.DeleteData) (bool, error) {
	if err := v.validator.Validate(ctx, data); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Delete(ctx, data)
}

func (v *RecordValidationService) Wrap(wrapper RecordService) RecordService {
	v.inner = wrapper
	return v
}
