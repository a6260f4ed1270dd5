// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
)

// ProxyAction names an operation of the backend proxy protocol.
type ProxyAction string

const (
	ActionCreate      ProxyAction = "create"
	ActionSearch      ProxyAction = "search"
	ActionSearchModel ProxyAction = "search_model"
	ActionUpdate      ProxyAction = "update"
	ActionDelete      ProxyAction = "delete"
)

// ProxyRequest is the envelope POSTed to the backend proxy.
type ProxyRequest struct {
	Action ProxyAction     `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// NewProxyRequest encodes data into a request envelope for action.
func NewProxyRequest(action ProxyAction, data any) (ProxyRequest, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return ProxyRequest{}, fmt.Errorf("encode %s data: %w", action, err)
	}
	return ProxyRequest{Action: action, Data: raw}, nil
}

// CreateData is the payload of [ActionCreate].
type CreateData struct {
	Model  string         `json:"model"`
	Fields map[string]any `json:"fields"`
}

// SearchData is the payload of [ActionSearch] and [ActionSearchModel].
type SearchData struct {
	Model  string   `json:"model"`
	Domain Domain   `json:"domain"`
	Fields []string `json:"fields,omitempty"`
}

// UpdateData is the payload of [ActionUpdate].
type UpdateData struct {
	Model  string         `json:"model"`
	ID     int64          `json:"id"`
	Values map[string]any `json:"values"`
}

// DeleteData is the payload of [ActionDelete].
type DeleteData struct {
	Model string `json:"model"`
	ID    int64  `json:"id"`
}

// ProxyResponse is the envelope returned by the backend proxy. Exactly one of
// ID, Result or Results is meaningful on success, depending on the action.
type ProxyResponse struct {
	Success bool            `json:"success"`
	ID      int64           `json:"id,omitempty"`
	Result  *bool           `json:"result,omitempty"`
	Results json.RawMessage `json:"results,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Relation declares a record field that references another collection and
// should be shown by that collection's display field.
type Relation struct {
	// Field is the relation field on cached records.
	Field string `json:"field"`
	// Model is the foreign collection.
	Model string `json:"model"`
	// DisplayField is the foreign field used as label, "name" when empty.
	DisplayField string `json:"display_field,omitempty"`
	// KeepIDAs, when set, keeps the raw foreign id under this key.
	KeepIDAs string `json:"keep_id_as,omitempty"`
}

// Display returns the configured display field or the default.
func (r Relation) Display() string {
	if r.DisplayField == "" {
		return "name"
	}
	return r.DisplayField
}
