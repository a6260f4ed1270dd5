// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args.
//
// Flags:
//
//	-a proxy listen address in format [host]:[port]
//	-adapter-address proxy base URL used by the client
//	-endpoint proxy endpoint path
//	-d proxy database DSN
//	-local-dsn client cache file
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "720h")
//	-api-token bearer token presented by the client
//	-request-timeout request timeout (e.g., "15s")
//	-hash-key request hash key
//	-sync-interval background sync period
//	-model mirrored collection
//	-fields comma separated fields to fetch
//	-name-field record name field
//	-counter-field numeric field changed by +/- in the client
//	-freshness-window staleness threshold
//	-recent-limit size of the recent records view
//	-allowed-models comma separated collections served by the proxy
//	-issue-token print a proxy token for the given subject and exit
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-record-cache", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var serverAddress NetAddress
	var adapterAddress, endpoint string
	var databaseDSN, localDSN string
	var jsonConfigPath string
	var tokenSignKey, tokenIssuer, apiToken string
	var tokenDuration, requestTimeout time.Duration
	var hashKey string
	var syncInterval, freshnessWindow time.Duration
	var model, fields, nameField, counterField string
	var recentLimit int
	var allowedModels string
	var issueToken string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&adapterAddress, "adapter-address", "", "Proxy base URL")
	fs.StringVar(&endpoint, "endpoint", "", "Proxy endpoint path")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&localDSN, "local-dsn", "", "Local cache DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 720h)")
	fs.StringVar(&apiToken, "api-token", "", "Bearer token for the proxy")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	fs.StringVar(&hashKey, "hash-key", "", "Request hash key")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval")
	fs.StringVar(&model, "model", "", "Mirrored collection")
	fs.StringVar(&fields, "fields", "", "Fields to fetch, comma separated")
	fs.StringVar(&nameField, "name-field", "", "Record name field")
	fs.StringVar(&counterField, "counter-field", "", "Numeric counter field")
	fs.DurationVar(&freshnessWindow, "freshness-window", 0, "Staleness threshold")
	fs.IntVar(&recentLimit, "recent-limit", 0, "Recent records view size")
	fs.StringVar(&allowedModels, "allowed-models", "", "Collections served by the proxy, comma separated")
	fs.StringVar(&issueToken, "issue-token", "", "Print a token for the subject and exit")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			HashKey:       hashKey,
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			APIToken:      apiToken,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Local: Local{DSN: localDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			AllowedModels:  splitList(allowedModels),
		},
		Adapter: Adapter{
			HTTPAddress:    adapterAddress,
			Endpoint:       endpoint,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{SyncInterval: syncInterval},
		Cache: Cache{
			Model:           model,
			Fields:          splitList(fields),
			NameField:       nameField,
			CounterField:    counterField,
			FreshnessWindow: freshnessWindow,
			RecentLimit:     recentLimit,
		},
		JSONFilePath: jsonConfigPath,
		IssueToken:   issueToken,
	}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range and checks IP correctness unless host is
// "localhost".
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
