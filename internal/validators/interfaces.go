// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks proxy envelope payloads before they reach the
// record store.
//
// [RecordValidator] enforces the model allow-list, field naming, record ids
// and the domain operators the store can translate to SQL.
package validators

import "context"

// Validator checks obj. When fields are given only the named parts of obj
// are checked.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
