// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"

	"github.com/MKhiriev/go-record-cache/models"
)

// StructuredConfig is the top-level configuration container shared by the
// cache client and the backend proxy. It is populated by merging environment
// variables, command-line flags, an optional JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to nested env lookups (caarlos0/env).
//   - env: environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds keys and token parameters.
	App App `envPrefix:"APP_"`

	// Storage holds the proxy database and the client's local cache file.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the proxy listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's outbound transport settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Cache describes the remote collection mirrored by the client.
	Cache Cache `envPrefix:"CACHE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: CONFIG. Flags: -c, -config.
	JSONFilePath string `env:"CONFIG"`

	// IssueToken, when set, asks the proxy to print a token for this subject
	// and exit. Flag only: -issue-token.
	IssueToken string
}

// App holds application-level secrets and token parameters.
type App struct {
	// HashKey is the HMAC key for the HashSHA256 request header.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// TokenSignKey signs and verifies proxy bearer tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim issued and expected by the proxy.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of issued tokens.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// APIToken is the bearer token the client presents to the proxy.
	// Env: APP_API_TOKEN
	APIToken string `env:"API_TOKEN"`
}

// Storage groups the persistence settings of both binaries.
type Storage struct {
	// DB is the proxy's Postgres database.
	DB DB `envPrefix:"DB_"`

	// Local is the client's SQLite cache file.
	Local Local `envPrefix:"LOCAL_"`
}

// DB holds connection settings for the proxy database.
type DB struct {
	// DSN is the Postgres connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Local holds the client's durable store settings.
type Local struct {
	// DSN is a SQLite file path or URI.
	// Env: STORAGE_LOCAL_DSN
	DSN string `env:"DSN"`
}

// Server holds the proxy listener settings.
type Server struct {
	// HTTPAddress is the listen address in "host:port" form.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// AllowedModels lists the collections the proxy serves. Empty allows all.
	// Env: SERVER_ALLOWED_MODELS (comma separated)
	AllowedModels []string `env:"ALLOWED_MODELS" envSeparator:","`
}

// Adapter holds the client's outbound transport settings.
type Adapter struct {
	// HTTPAddress is the proxy base URL or "host:port".
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// Endpoint is the path of the proxy endpoint.
	// Env: ADAPTER_ENDPOINT
	Endpoint string `env:"ENDPOINT"`

	// RequestTimeout bounds a single outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds background worker settings.
type Workers struct {
	// SyncInterval is the period of the background incremental sync.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Cache describes the mirrored collection and the engine's freshness policy.
type Cache struct {
	// Model is the remote collection name.
	// Env: CACHE_MODEL
	Model string `env:"MODEL"`

	// Fields restricts the fetched fields. Empty fetches all of them.
	// Env: CACHE_FIELDS (comma separated)
	Fields []string `env:"FIELDS" envSeparator:","`

	// NameField is the key of the display name on records.
	// Env: CACHE_NAME_FIELD
	NameField string `env:"NAME_FIELD"`

	// CounterField is the numeric field the consumer increments.
	// Env: CACHE_COUNTER_FIELD
	CounterField string `env:"COUNTER_FIELD"`

	// FreshnessWindow is the age after which cached data is stale.
	// Env: CACHE_FRESHNESS_WINDOW
	FreshnessWindow time.Duration `env:"FRESHNESS_WINDOW"`

	// RecentLimit is the number of records in the "most recent" view.
	// Env: CACHE_RECENT_LIMIT
	RecentLimit int `env:"RECENT_LIMIT"`

	// Relations are the cross-referenced fields resolved to labels.
	// JSON only.
	Relations []models.Relation
}

// GetStructuredConfig loads and merges configuration from all sources. For
// every field the first non-zero value wins, in this order:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		withDefaults().
		build()
}
