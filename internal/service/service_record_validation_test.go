// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/mock"
	"github.com/MKhiriev/go-record-cache/internal/validators"
	"github.com/MKhiriev/go-record-cache/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newValidatedService(ctrl *gomock.Controller) (RecordService, *mock.MockRecordRepository) {
	repo := mock.NewMockRecordRepository(ctrl)
	inner := NewRecordService(repo, logger.Nop())
	return NewRecordValidationService([]string{"x_groceries", "res_partner"}).Wrap(inner), repo
}

func TestRecordValidationService_RejectsBeforeRepository(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     func(t *testing.T) models.ProxyRequest
		wantErr error
	}{
		{
			name: "model not allowed",
			req: func(t *testing.T) models.ProxyRequest {
				return proxyRequest(t, models.ActionCreate, models.CreateData{Model: "res_users", Fields: map[string]any{"login": "x"}})
			},
			wantErr: validators.ErrModelNotAllowed,
		},
		{
			name: "empty fields",
			req: func(t *testing.T) models.ProxyRequest {
				return proxyRequest(t, models.ActionCreate, models.CreateData{Model: "x_groceries"})
			},
			wantErr: validators.ErrEmptyFields,
		},
		{
			name: "id is reserved",
			req: func(t *testing.T) models.ProxyRequest {
				return proxyRequest(t, models.ActionUpdate, models.UpdateData{Model: "x_groceries", ID: 1, Values: map[string]any{"id": 2}})
			},
			wantErr: validators.ErrReservedField,
		},
		{
			name: "invalid id",
			req: func(t *testing.T) models.ProxyRequest {
				return proxyRequest(t, models.ActionDelete, models.DeleteData{Model: "x_groceries", ID: 0})
			},
			wantErr: validators.ErrInvalidID,
		},
		{
			name: "unknown operator",
			req: func(t *testing.T) models.ProxyRequest {
				return proxyRequest(t, models.ActionSearch, models.SearchData{
					Model:  "x_groceries",
					Domain: models.Domain{models.Where("x_name", "~", "milk")},
				})
			},
			wantErr: validators.ErrInvalidOperator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// no repository expectations: a rejected payload never reaches it
			svc, _ := newValidatedService(ctrl)

			_, err := svc.Handle(ctx, tt.req(t))
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecordValidationService_PassesValidPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newValidatedService(ctrl)
	repo.EXPECT().Search(gomock.Any(), "res_partner", gomock.Any(), []string{"id", "name"}).
		Return([]map[string]any{{"id": 7, "name": "Alice"}}, nil)

	resp, err := svc.Handle(context.Background(), proxyRequest(t, models.ActionSearchModel, models.SearchData{
		Model:  "res_partner",
		Domain: models.IDIn([]int64{7}),
		Fields: []string{"id", "name"},
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":7,"name":"Alice"}]`, string(resp.Results))
}
