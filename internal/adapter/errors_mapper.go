// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-record-cache/models"
	"github.com/go-resty/resty/v2"
)

// unwrapEnvelope decodes the proxy envelope from resp and turns every
// refusal into an error carrying the proxy's message.
func unwrapEnvelope(resp *resty.Response) (models.ProxyResponse, error) {
	var envelope models.ProxyResponse
	decodeErr := json.Unmarshal(resp.Body(), &envelope)

	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		if decodeErr != nil {
			return envelope, fmt.Errorf("%w: malformed response envelope: %w", ErrTransport, decodeErr)
		}
		if !envelope.Success {
			return envelope, fmt.Errorf("%w: %s", ErrRemoteRejected, rejectionMessage(envelope, resp))
		}
		return envelope, nil
	}

	message := rejectionMessage(envelope, resp)
	switch status {
	case http.StatusUnauthorized:
		return envelope, fmt.Errorf("%w: %w: %s", ErrRemoteRejected, ErrUnauthorized, message)
	case http.StatusForbidden:
		return envelope, fmt.Errorf("%w: %w: %s", ErrRemoteRejected, ErrForbidden, message)
	default:
		return envelope, fmt.Errorf("%w: http %d: %s", ErrRemoteRejected, status, message)
	}
}

// rejectionMessage prefers the envelope's error text, then the raw body,
// then the status text.
func rejectionMessage(envelope models.ProxyResponse, resp *resty.Response) string {
	if envelope.Error != "" {
		return envelope.Error
	}
	if body := strings.TrimSpace(string(resp.Body())); body != "" && !strings.HasPrefix(body, "{") {
		return body
	}
	if text := http.StatusText(resp.StatusCode()); text != "" {
		return strings.ToLower(text)
	}
	return "request failed"
}
