// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It runs the terminal UI on top of the cache engine and releases the engine
// and the local store when the UI exits.
package client
