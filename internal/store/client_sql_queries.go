// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	getSchemaVersion = `SELECT version FROM store_schema WHERE id = 1;`

	upsertSchemaVersion = `
		INSERT INTO store_schema (id, version) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET version = excluded.version;`

	getPartitionKeyField = `SELECT key_field FROM store_partitions WHERE name = ?;`

	insertPartition = `
		INSERT INTO store_partitions (name, key_field) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING;`

	dropAllPartitions       = `DELETE FROM store_partitions;`
	dropAllPartitionRecords = `DELETE FROM partition_records;`

	upsertPartitionRecord = `
		INSERT INTO partition_records (partition, key, value) VALUES (?, ?, ?)
		ON CONFLICT(partition, key) DO UPDATE SET value = excluded.value;`

	getPartitionRecord = `SELECT value FROM partition_records WHERE partition = ? AND key = ?;`

	getAllPartitionRecords = `SELECT value FROM partition_records WHERE partition = ? ORDER BY key;`

	deletePartitionRecord = `DELETE FROM partition_records WHERE partition = ? AND key = ?;`

	clearPartitionRecords = `DELETE FROM partition_records WHERE partition = ?;`

	upsertMirrorValue = `
		INSERT INTO cache_mirror (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`

	getMirrorValue = `SELECT value FROM cache_mirror WHERE key = ?;`

	clearMirror = `DELETE FROM cache_mirror WHERE key IN (?, ?);`
)
