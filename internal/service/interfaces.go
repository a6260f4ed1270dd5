// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-record-cache/models"
)

// RecordService executes proxy envelope actions against the record store.
type RecordService interface {
	// Handle decodes req.Data for req.Action, runs it and builds the
	// success envelope.
	Handle(ctx context.Context, req models.ProxyRequest) (models.ProxyResponse, error)

	Create(ctx context.Context, data models.CreateData) (int64, error)
	Search(ctx context.Context, data models.SearchData) ([]map[string]any, error)
	Update(ctx context.Context, data models.UpdateData) (bool, error)
	Delete(ctx context.Context, data models.DeleteData) (bool, error)
}

// RecordServiceWrapper defines middleware composition for RecordService.
// Implementations wrap an existing RecordService to add behavior such as
// validation.
type RecordServiceWrapper interface {
	Wrap(RecordService) RecordService
}

// AppInfoService reports build information of the running binary.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
