// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	// ErrTransport marks failures to reach the proxy or to read its answer:
	// connection errors, timeouts, cancelled contexts, undecodable bodies.
	ErrTransport = errors.New("remote transport failure")

	// ErrRemoteRejected marks a proxy answer with success=false or a
	// non-2xx status. The wrapped message is the proxy's error text.
	ErrRemoteRejected = errors.New("remote rejected request")

	// ErrUnauthorized is returned on HTTP 401. It also matches
	// [ErrRemoteRejected].
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrForbidden is returned on HTTP 403. It also matches
	// [ErrRemoteRejected].
	ErrForbidden = errors.New("model not allowed")
)
