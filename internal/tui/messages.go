// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/MKhiriev/go-record-cache/models"

// stateMsg carries a state published by the engine.
type stateMsg struct {
	state  models.CacheState
	status models.CacheStatus
	recent []models.Record
}

// actionDoneMsg reports the outcome of a user action run against the engine.
type actionDoneMsg struct {
	notice string
	err    error
}

type initializedMsg struct {
	err error
}

type clearNoticeMsg struct{}
