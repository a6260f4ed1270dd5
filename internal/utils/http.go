// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps request bodies read by [DecodeJSON].
const MaxBodyBytes = 4 << 20

// ErrBodyTooLarge is returned by [DecodeJSON] when the body exceeds the cap.
var ErrBodyTooLarge = errors.New("request body too large")

// WriteJSON serializes data and writes it with statusCode and a JSON
// content type. On a marshaling failure it answers 500 instead and returns
// the error.
//
// Example usage:
//
//	WriteJSON(w, models.ProxyResponse{Success: true, ID: 7}, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// DecodeJSON decodes a single JSON value from r into v, reading at most
// [MaxBodyBytes]. Numbers are decoded as float64, as with json.Unmarshal.
func DecodeJSON(r io.Reader, v any) error {
	limited := io.LimitReader(r, MaxBodyBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > MaxBodyBytes {
		return ErrBodyTooLarge
	}
	if err = json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
