package ingest

import (
	"bytes"
	"encoding/json"
)

// Row is one parsed record: field names mapped to string values.
//
// Field order is first-insertion order, which is what header discovery
// relies on. Setting an existing field replaces its value in place.
type Row struct {
	keys   []string
	values map[string]string
}

// NewRow builds a row from alternating key/value pairs. A trailing key
// without a value is ignored.
func NewRow(kv ...string) Row {
	r := Row{values: make(map[string]string, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

// Set assigns value to field.
func (r *Row) Set(field, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[field]; !ok {
		r.keys = append(r.keys, field)
	}
	r.values[field] = value
}

// Get returns the value of field and whether it is present.
func (r Row) Get(field string) (string, bool) {
	v, ok := r.values[field]
	return v, ok
}

// Value returns the value of field, or "" when absent.
func (r Row) Value(field string) string {
	return r.values[field]
}

// Keys returns the field names in insertion order.
func (r Row) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of fields.
func (r Row) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the row as an object with its fields in order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
