// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/store"
	"github.com/MKhiriev/go-record-cache/internal/utils"
	"github.com/MKhiriev/go-record-cache/models"
)

// proxy decodes one action envelope, runs it against the record store and
// answers with the response envelope. Failures are answered with
// success=false and a status derived from the error.
func (h *Handler) proxy(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.ProxyRequest
	if err := utils.DecodeJSON(r.Body, &req); err != nil {
		log.Err(err).Str("func", "*Handler.proxy").Msg("invalid envelope")
		status := http.StatusBadRequest
		if errors.Is(err, utils.ErrBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.writeEnvelope(w, r, models.ProxyResponse{Error: "invalid request envelope"}, status)
		return
	}

	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	resp, err := h.services.RecordService.Handle(ctx, req)
	if err != nil {
		// a missing record is an answer, not a failure, for update and delete
		if errors.Is(err, store.ErrRecordNotFound) && (req.Action == models.ActionUpdate || req.Action == models.ActionDelete) {
			notFound := false
			h.writeEnvelope(w, r, models.ProxyResponse{Success: true, Result: &notFound}, http.StatusOK)
			return
		}

		status := statusFromError(err)
		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).Str("func", "*Handler.proxy").Str("action", string(req.Action)).Int("status", status).Msg("proxy action failed")

		h.writeEnvelope(w, r, models.ProxyResponse{Error: publicMessage(err, status)}, status)
		return
	}

	h.writeEnvelope(w, r, resp, http.StatusOK)
}

func (h *Handler) writeEnvelope(w http.ResponseWriter, r *http.Request, resp models.ProxyResponse, status int) {
	if _, err := utils.WriteJSON(w, resp, status); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.writeEnvelope").Msg("write response")
	}
}

// publicMessage hides internal failures from clients.
func publicMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
