// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-record-cache/models"
)

// ClientApp holds client-side secrets.
type ClientApp struct {
	// HashKey signs request bodies when non-empty.
	HashKey string
	// APIToken is sent as a bearer token when non-empty.
	APIToken string
}

// ClientAdapter holds the transport settings of the remote client.
type ClientAdapter struct {
	HTTPAddress    string
	Endpoint       string
	RequestTimeout time.Duration
}

// ClientStorage holds the local durable store settings.
type ClientStorage struct {
	// DSN is the SQLite file path or URI.
	DSN string
}

// ClientWorkers holds client background worker settings.
type ClientWorkers struct {
	SyncInterval time.Duration
}

// ClientCache is the engine's view of the mirrored collection.
type ClientCache struct {
	Model           string
	Fields          []string
	NameField       string
	CounterField    string
	FreshnessWindow time.Duration
	RecentLimit     int
	Relations       []models.Relation
}

// ClientConfig is the configuration of the cache client binary.
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Cache   ClientCache
}

// GetClientConfig builds and validates the client view of the merged
// configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.ClientConfig()
	return clientCfg, clientCfg.validate()
}

// ClientConfig narrows cfg to the fields used by the client.
func (cfg *StructuredConfig) ClientConfig() *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			HashKey:  cfg.App.HashKey,
			APIToken: cfg.App.APIToken,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			Endpoint:       cfg.Adapter.Endpoint,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{DSN: cfg.Storage.Local.DSN},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
		Cache: ClientCache{
			Model:           cfg.Cache.Model,
			Fields:          cfg.Cache.Fields,
			NameField:       cfg.Cache.NameField,
			CounterField:    cfg.Cache.CounterField,
			FreshnessWindow: cfg.Cache.FreshnessWindow,
			RecentLimit:     cfg.Cache.RecentLimit,
			Relations:       cfg.Cache.Relations,
		},
	}
}
