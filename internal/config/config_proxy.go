// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ProxyApp holds the proxy's secrets and token parameters.
type ProxyApp struct {
	HashKey       string
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

// ProxyServer holds the listener settings.
type ProxyServer struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	AllowedModels  []string
}

// ProxyStorage holds the record store connection.
type ProxyStorage struct {
	DB DB
}

// ProxyConfig is the configuration of the backend proxy binary.
type ProxyConfig struct {
	App     ProxyApp
	Server  ProxyServer
	Storage ProxyStorage

	// IssueToken is the subject to mint a token for, or empty to serve.
	IssueToken string
}

// GetProxyConfig builds and validates the proxy view of the merged
// configuration.
func GetProxyConfig() (*ProxyConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	proxyCfg := cfg.ProxyConfig()
	return proxyCfg, proxyCfg.validate()
}

// ProxyConfig narrows cfg to the fields used by the proxy.
func (cfg *StructuredConfig) ProxyConfig() *ProxyConfig {
	return &ProxyConfig{
		App: ProxyApp{
			HashKey:       cfg.App.HashKey,
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
		},
		Server: ProxyServer{
			HTTPAddress:    cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
			AllowedModels:  cfg.Server.AllowedModels,
		},
		Storage:    ProxyStorage{DB: cfg.Storage.DB},
		IssueToken: cfg.IssueToken,
	}
}
