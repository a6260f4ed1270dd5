// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-record-cache/internal/service"
	"github.com/MKhiriev/go-record-cache/internal/store"
	"github.com/MKhiriev/go-record-cache/internal/validators"
)

// errorStatusMap is checked in order; the first match wins.
var errorStatusMap = []struct {
	target error
	status int
}{
	{validators.ErrModelNotAllowed, http.StatusForbidden},
	{service.ErrInvalidDataProvided, http.StatusBadRequest},
	{service.ErrUnknownAction, http.StatusBadRequest},
	{store.ErrInvalidQuery, http.StatusBadRequest},
	{store.ErrRecordNotFound, http.StatusNotFound},
	{store.ErrRecordConflict, http.StatusConflict},
	{store.ErrUnavailable, http.StatusServiceUnavailable},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},

	{store.ErrBuildingSQLQuery, http.StatusInternalServerError},
	{store.ErrExecutingQuery, http.StatusInternalServerError},
	{store.ErrScanningRows, http.StatusInternalServerError},
	{store.ErrEncodingValue, http.StatusInternalServerError},
	{store.ErrDecodingValue, http.StatusInternalServerError},
}

func statusFromError(err error) int {
	for _, m := range errorStatusMap {
		if errors.Is(err, m.target) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}
