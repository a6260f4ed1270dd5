// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "errors"

var (
	errNoCacheEngine = errors.New("no cache engine to run")
	errNoUI          = errors.New("no ui to run")
)
