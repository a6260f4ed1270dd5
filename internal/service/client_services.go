// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-record-cache/internal/adapter"
	"github.com/MKhiriev/go-record-cache/internal/config"
	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/store"
)

// ClientServices groups the services of the cache client.
type ClientServices struct {
	CacheEngine CacheEngine
}

func NewClientServices(storages *store.ClientStorages, remote adapter.RemoteClient, cfg *config.ClientConfig, logger *logger.Logger) (*ClientServices, error) {
	engine, err := NewCacheEngine(EngineDeps{Remote: remote, Storages: storages}, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create cache engine: %w", err)
	}

	return &ClientServices{
		CacheEngine: engine,
	}, nil
}
