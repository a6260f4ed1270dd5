// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/utils"
	"github.com/MKhiriev/go-record-cache/models"
	"github.com/rs/zerolog"
)

// auth enforces bearer-token authentication.
//
// The token must be an HS256 JWT signed with the proxy's sign key and issued
// by the configured issuer. On success the token subject is stored in the
// request context as the client id and added to the request logger. Every
// rejection is answered with 401 Unauthorized and a failed envelope.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			h.unauthorized(w, r, ErrEmptyAuthorizationHeader)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			h.unauthorized(w, r, err)
			return
		}

		token, err := utils.ValidateAndParseJWTToken(tokenString, h.tokenSignKey, h.tokenIssuer)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			h.unauthorized(w, r, ErrInvalidToken)
			return
		}

		log.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("client_id", token.Subject)
		})
		ctx := utils.WithClientID(log.WithContext(r.Context()), token.Subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	h.writeEnvelope(w, r, models.ProxyResponse{Error: err.Error()}, http.StatusUnauthorized)
}
