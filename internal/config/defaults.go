// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

const (
	DefaultAddress         = "localhost:8080"
	DefaultEndpoint        = "/api/proxy"
	DefaultRequestTimeout  = 15 * time.Second
	DefaultSyncInterval    = 5 * time.Minute
	DefaultFreshnessWindow = 5 * time.Minute
	DefaultModel           = "x_records"
	DefaultNameField       = "x_name"
	DefaultRecentLimit     = 10
	DefaultLocalDSN        = "record-cache.db"
	DefaultTokenIssuer     = "go-record-cache"
	DefaultTokenDuration   = 30 * 24 * time.Hour
)

// Defaults returns the lowest-priority configuration source.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   DefaultTokenIssuer,
			TokenDuration: DefaultTokenDuration,
		},
		Storage: Storage{
			Local: Local{DSN: DefaultLocalDSN},
		},
		Server: Server{
			HTTPAddress:    DefaultAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    DefaultAddress,
			Endpoint:       DefaultEndpoint,
			RequestTimeout: DefaultRequestTimeout,
		},
		Workers: Workers{SyncInterval: DefaultSyncInterval},
		Cache: Cache{
			Model:           DefaultModel,
			NameField:       DefaultNameField,
			FreshnessWindow: DefaultFreshnessWindow,
			RecentLimit:     DefaultRecentLimit,
		},
	}
}
