// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Cache engine errors.
var (
	ErrEngineDestroyed     = errors.New("cache engine is destroyed")
	ErrAlreadyInitialized  = errors.New("cache engine is already initialized")
	ErrNoModelConfigured   = errors.New("no remote model configured for the cache")
	ErrRecordNotCached     = errors.New("record is not in the cache")
	ErrFieldNotNumeric     = errors.New("field is not numeric")
	ErrNoCounterField      = errors.New("no counter field configured")
	ErrInvalidDraft        = errors.New("invalid draft in outbox")
	ErrMissingDependencies = errors.New("cache engine dependencies are missing")
)

// errNoChange tells commit that the transition is a no-op.
var errNoChange = errors.New("no state change")

// Record service errors.
var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrUnknownAction       = errors.New("unknown proxy action")
)
