// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

// Server is the lifecycle contract of the proxy's listeners.
type Server interface {
	// RunServer serves until SIGINT, SIGTERM or SIGQUIT and then shuts
	// down gracefully.
	RunServer()

	// Shutdown stops accepting requests and waits for in-flight ones.
	Shutdown()
}
