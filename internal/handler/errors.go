// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when no listener address
// is configured. The proxy treats it as a fatal misconfiguration.
var errNoHandlersAreCreated = errors.New("no handlers are created")
