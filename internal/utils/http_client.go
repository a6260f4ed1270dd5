// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrEmptyAddress is returned by [NormalizeBaseURL] for a blank address.
var ErrEmptyAddress = errors.New("empty address")

// HTTPClient wraps [resty.Client]. It embeds the client so every resty
// method stays available.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client rooted at baseURL. A non-positive timeout
// leaves resty's default (none) in place. Retries are disabled.
//
// Example usage:
//
//	client, err := utils.NewHTTPClient("localhost:8080", 15*time.Second)
//	resp, err := client.R().SetBody(req).Post("/api/proxy")
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	client := resty.New().
		SetBaseURL(normalized).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}, nil
}

// NormalizeBaseURL adds an http scheme when raw has none and strips
// trailing slashes.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address %q must include host and scheme", raw)
	}

	return strings.TrimRight(u.String(), "/"), nil
}
