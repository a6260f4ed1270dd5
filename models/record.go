// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// TempIDPrefix marks identities assigned locally to records that the remote
// store has not confirmed yet.
const TempIDPrefix = "tmp-"

// ErrInvalidRecordID is returned when a value cannot be interpreted as a
// [RecordID].
var ErrInvalidRecordID = errors.New("invalid record id")

// RecordID is the identity of a cached record. It is either a positive
// remote-assigned integer or a temporary local identity prefixed with
// [TempIDPrefix]. The zero value is "no identity".
type RecordID struct {
	num  int64
	temp string
}

// NewRecordID returns a confirmed (remote-assigned) identity.
func NewRecordID(id int64) RecordID {
	return RecordID{num: id}
}

// NewTempID returns a temporary identity built from suffix.
func NewTempID(suffix string) RecordID {
	return RecordID{temp: TempIDPrefix + suffix}
}

// ParseRecordID parses the textual form produced by [RecordID.String].
func ParseRecordID(s string) (RecordID, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, TempIDPrefix) && len(s) > len(TempIDPrefix) {
		return RecordID{temp: s}, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return RecordID{}, fmt.Errorf("%w: %q", ErrInvalidRecordID, s)
	}
	return RecordID{num: n}, nil
}

// Int64 returns the remote identity, or 0 for temporary and zero identities.
func (id RecordID) Int64() int64 {
	return id.num
}

// IsTemp reports whether id is a temporary local identity.
func (id RecordID) IsTemp() bool {
	return id.temp != ""
}

// IsZero reports whether id carries no identity at all.
func (id RecordID) IsZero() bool {
	return id.num == 0 && id.temp == ""
}

func (id RecordID) String() string {
	if id.IsTemp() {
		return id.temp
	}
	return strconv.FormatInt(id.num, 10)
}

// Compare orders confirmed identities numerically and places every temporary
// identity after all confirmed ones. Temporary identities compare by their
// text, which is time ordered for UUIDv7 suffixes.
func (id RecordID) Compare(other RecordID) int {
	switch {
	case id.IsTemp() && other.IsTemp():
		return strings.Compare(id.temp, other.temp)
	case id.IsTemp():
		return 1
	case other.IsTemp():
		return -1
	case id.num < other.num:
		return -1
	case id.num > other.num:
		return 1
	default:
		return 0
	}
}

func (id RecordID) MarshalJSON() ([]byte, error) {
	if id.IsTemp() {
		return json.Marshal(id.temp)
	}
	return []byte(strconv.FormatInt(id.num, 10)), nil
}

func (id *RecordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseRecordID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var f json.Number
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecordID, string(b))
	}
	n, err := f.Int64()
	if err != nil {
		fl, ferr := f.Float64()
		if ferr != nil {
			return fmt.Errorf("%w: %s", ErrInvalidRecordID, string(b))
		}
		n = int64(fl)
	}
	*id = RecordID{num: n}
	return nil
}

// Record is an entity of the remote collection. Fields holds every attribute
// except the identity, including the name field.
type Record struct {
	ID     RecordID
	Fields map[string]any
}

// NewRecord builds a record with a copy of fields. An "id" key in fields is
// ignored in favour of id.
func NewRecord(id RecordID, fields map[string]any) Record {
	f := maps.Clone(fields)
	if f == nil {
		f = make(map[string]any)
	}
	delete(f, "id")
	return Record{ID: id, Fields: f}
}

// Clone returns a copy whose field map can be modified independently.
func (r Record) Clone() Record {
	return Record{ID: r.ID, Fields: maps.Clone(r.Fields)}
}

// With returns a copy of r with values shallow-merged over its fields.
func (r Record) With(values map[string]any) Record {
	out := r.Clone()
	if out.Fields == nil {
		out.Fields = make(map[string]any, len(values))
	}
	for k, v := range values {
		if k == "id" {
			continue
		}
		out.Fields[k] = v
	}
	return out
}

// Name returns the value of nameField rendered as a string.
func (r Record) Name(nameField string) string {
	v, ok := r.Fields[nameField]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Number returns the numeric value of field, accepting the integer and
// floating point types a JSON round trip can produce.
func (r Record) Number(field string) (float64, bool) {
	switch v := r.Fields[field].(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		flat[k] = v
	}
	flat["id"] = r.ID
	return json.Marshal(flat)
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var id RecordID
	if rawID, ok := raw["id"]; ok {
		if err := json.Unmarshal(rawID, &id); err != nil {
			return err
		}
		delete(raw, "id")
	}

	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		var value any
		if err := json.Unmarshal(v, &value); err != nil {
			return fmt.Errorf("decode field %q: %w", k, err)
		}
		fields[k] = value
	}

	r.ID = id
	r.Fields = fields
	return nil
}

// SortRecords sorts records in place by ascending identity, temporary
// identities last.
func SortRecords(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return a.ID.Compare(b.ID)
	})
}

// CloneRecords returns a deep copy of the slice and of every field map.
func CloneRecords(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// IndexOf returns the position of id in records, or -1.
func IndexOf(records []Record, id RecordID) int {
	return slices.IndexFunc(records, func(r Record) bool {
		return r.ID == id
	})
}
