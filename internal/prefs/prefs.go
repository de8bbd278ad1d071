package prefs

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
)

// Key names used by the planner and the TUI.
const (
	KeyTheme          = "theme"
	KeySearchLast     = "search.last"
	KeyFilterMode     = "filter.mode"
	KeySortColumn     = "sort.column"
	KeySortDescending = "sort.descending"
	KeyColumnsOrder   = "columns.order"
	KeyColumnsHidden  = "columns.hidden"
	keyColumnWidth    = "columns.width."
)

// ColumnWidthKey returns the key holding the width of one column.
func ColumnWidthKey(column string) string {
	return keyColumnWidth + column
}

// Kind identifies the payload type of a Value.
type Kind int

// KindString and related constants define the supported payloads.
const (
	KindString Kind = iota + 1
	KindInt
	KindBool
	KindBytes
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one typed preference payload.
type Value struct {
	kind Kind
	s    string
	i    int64
	b    bool
	raw  []byte
}

// StringValue wraps s.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue wraps n.
func IntValue(n int64) Value { return Value{kind: KindInt, i: n} }

// BoolValue wraps v.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// BytesValue wraps a copy of raw.
func BytesValue(raw []byte) Value { return Value{kind: KindBytes, raw: bytes.Clone(raw)} }

// Kind returns the payload kind; the zero Value has kind 0.
func (v Value) Kind() Kind { return v.kind }

// Equal reports whether both values carry the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindBool:
		return v.b == o.b
	case KindBytes:
		return bytes.Equal(v.raw, o.raw)
	default:
		return true
	}
}

// Store is the key-value contract consumed by the planner and the TUI.
type Store interface {
	Get(key string) (Value, bool)
	Set(key string, v Value) error
}

// String returns the string stored at key, or fallback when the key is missing or holds
// another kind.
func String(s Store, key, fallback string) string {
	v, ok := s.Get(key)
	if !ok || v.kind != KindString {
		return fallback
	}
	return v.s
}

// Int returns the integer stored at key, or fallback.
func Int(s Store, key string, fallback int) int {
	v, ok := s.Get(key)
	if !ok || v.kind != KindInt {
		return fallback
	}
	return int(v.i)
}

// Bool returns the bool stored at key, or fallback.
func Bool(s Store, key string, fallback bool) bool {
	v, ok := s.Get(key)
	if !ok || v.kind != KindBool {
		return fallback
	}
	return v.b
}

// Bytes returns a copy of the binary payload stored at key, or fallback.
func Bytes(s Store, key string, fallback []byte) []byte {
	v, ok := s.Get(key)
	if !ok || v.kind != KindBytes {
		return fallback
	}
	return bytes.Clone(v.raw)
}

// MemoryStore keeps preferences in a map.
type MemoryStore struct {
	values map[string]Value
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]Value{}}
}

// Get returns the value stored at key.
func (m *MemoryStore) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores v at key.
func (m *MemoryStore) Set(key string, v Value) error {
	m.values[key] = v
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *MemoryStore) Keys() []string {
	return slices.Sorted(maps.Keys(m.values))
}
