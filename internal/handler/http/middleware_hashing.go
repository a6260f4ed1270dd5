// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-record-cache/internal/utils"
	"github.com/MKhiriev/go-record-cache/models"
)

// checkHash verifies the HMAC-SHA256 of the raw request body against the
// hash header. It passes every request through when no hash key is
// configured.
func (h *Handler) checkHash(next http.Handler) http.Handler {
	if h.hasher == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debug().Str("func", "*Handler.checkHash").Msg("checking hash begins")

		hash := r.Header.Get(utils.HashHeader)
		if hash == "" {
			h.logger.Error().Str("func", "*Handler.checkHash").Msg("request has no hash")
			h.writeEnvelope(w, r, models.ProxyResponse{Error: ErrMissingHash.Error()}, http.StatusBadRequest)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, utils.MaxBodyBytes+1))
		if err != nil {
			h.logger.Err(err).Str("func", "*Handler.checkHash").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !h.hasher.Equal(body, hash) {
			h.logger.Error().Str("func", "*Handler.checkHash").
				Str("hash from request", hash).
				Str("hashed body", h.hasher.HexSum(body)).
				Msg("hashes are not equal")
			h.writeEnvelope(w, r, models.ProxyResponse{Error: ErrHashMismatch.Error()}, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}

