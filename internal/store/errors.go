// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Local durable store errors. Callers should match them with [errors.Is].
var (
	// ErrPersistence marks every failed read or write against the local
	// store. It is the "persistence failure" error kind of the cache engine.
	ErrPersistence = errors.New("local store persistence failed")

	// ErrKeyNotFound is returned by Get when the partition has no document
	// under the requested key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnknownPartition is returned for a partition that was not declared
	// in the store schema.
	ErrUnknownPartition = errors.New("unknown partition")

	// ErrMissingKey is returned when a document lacks the partition's key
	// field or the key is empty.
	ErrMissingKey = errors.New("document has no value for the partition key field")

	// ErrPartitionKeyChanged is returned on open when a partition is
	// declared with a different key field under the same schema version.
	ErrPartitionKeyChanged = errors.New("partition key field changed without a version bump")

	// ErrSchemaDowngrade is returned on open when the stored schema version
	// is newer than the requested one.
	ErrSchemaDowngrade = errors.New("store schema version is older than the stored one")
)

// Proxy record store errors.
var (
	// ErrRecordNotFound is returned when an update or delete matches no row.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrRecordConflict is returned for integrity constraint violations.
	ErrRecordConflict = errors.New("record conflicts with existing data")

	// ErrInvalidQuery is returned when a domain or field list cannot be
	// translated to SQL, or Postgres rejects the data.
	ErrInvalidQuery = errors.New("invalid record query")

	// ErrUnavailable is returned for transient database failures.
	ErrUnavailable = errors.New("record store temporarily unavailable")
)

// Low-level database operation errors. Repository methods wrap the driver
// error with one of these.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to executing statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")
	ErrEncodingValue        = errors.New("failed to encode value")
	ErrDecodingValue        = errors.New("failed to decode value")
)
