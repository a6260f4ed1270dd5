// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-record-cache/internal/config"
	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/store"
	"github.com/MKhiriev/go-record-cache/models"
)

// Services groups the proxy services.
type Services struct {
	RecordService  RecordService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.ProxyConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) *Services {
	records := NewRecordService(storages.RecordRepository, logger)

	return &Services{
		RecordService:  NewRecordValidationService(cfg.Server.AllowedModels).Wrap(records),
		AppInfoService: NewAppInfoService(buildInfo, logger),
	}
}
