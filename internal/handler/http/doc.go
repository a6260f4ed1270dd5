// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the HTTP transport of the backend proxy.
//
// It exposes the proxy endpoint that receives action envelopes from cache
// clients, plus unauthenticated ping and version routes. Tracing, access
// logging, compression, bearer-token authentication and body integrity
// checks run here before requests reach the record service.
package http
