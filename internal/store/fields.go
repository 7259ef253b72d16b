package store

import (
	"encoding/base64"
	"encoding/json"
)

// Typed accessors for the loose field bag. Adapters differ in how they
// round-trip values (a jsonb-backed adapter returns float64 for numbers, an
// in-memory adapter returns what was written), so the accessors normalize.

// String returns the field as a string, or "" when absent.
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

// Int returns the field as an int, or 0 when absent.
func (f Fields) Int(key string) int {
	switch v := f[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}

// IntPtr returns the field as *int, or nil when absent.
func (f Fields) IntPtr(key string) *int {
	if _, ok := f[key]; !ok {
		return nil
	}
	if f[key] == nil {
		return nil
	}
	n := f.Int(key)
	return &n
}

// Bool returns the field as a bool, or false when absent.
func (f Fields) Bool(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	default:
		return false
	}
}

// Bytes returns the field as raw bytes. Adapters that serialize through JSON
// hand binary columns back base64-encoded; both forms decode.
func (f Fields) Bytes(key string) []byte {
	switch v := f[key].(type) {
	case []byte:
		return v
	case string:
		decoded, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil
		}
		return decoded
	default:
		return nil
	}
}
