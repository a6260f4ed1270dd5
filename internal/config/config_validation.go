// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.Endpoint == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Cache.Model == "" || cfg.Cache.NameField == "" || cfg.Cache.FreshnessWindow <= 0 || cfg.Cache.RecentLimit < 0 {
		return ErrInvalidCacheConfigs
	}

	seen := make(map[string]struct{}, len(cfg.Cache.Relations))
	for _, rel := range cfg.Cache.Relations {
		if rel.Field == "" || rel.Model == "" {
			return fmt.Errorf("%w: relation needs field and model", ErrInvalidCacheConfigs)
		}
		if _, dup := seen[rel.Field]; dup {
			return fmt.Errorf("%w: relation field %q declared twice", ErrInvalidCacheConfigs, rel.Field)
		}
		seen[rel.Field] = struct{}{}
	}

	return nil
}

func (cfg *ProxyConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	// minting a token needs no database or listener
	if cfg.IssueToken != "" {
		return nil
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	return nil
}
