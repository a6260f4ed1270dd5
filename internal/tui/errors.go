// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/go-record-cache/internal/adapter"
	"github.com/MKhiriev/go-record-cache/internal/service"
)

// humanizeError turns engine and transport errors into one-line messages.
func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, adapter.ErrTransport):
		return "Server unreachable, working offline"
	case errors.Is(err, adapter.ErrUnauthorized):
		return "The server refused the API token"
	case errors.Is(err, adapter.ErrForbidden):
		return "This collection is not allowed by the server"
	case errors.Is(err, service.ErrFieldNotNumeric):
		return "The counter field of this record is not a number"
	case errors.Is(err, service.ErrNoCounterField):
		return "No counter field is configured"
	case errors.Is(err, service.ErrEngineDestroyed):
		return "The cache is shut down"
	default:
		return err.Error()
	}
}
