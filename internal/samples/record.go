package samples

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is a single heart-rate sample.
//
// Values are kept as raw JSON so fields the filter doesn't know about are written back untouched.
// Fields keep the order they had in the source document.
type Record struct {
	fields []field
}

type field struct {
	key   string
	value json.RawMessage
}

// Get returns the raw JSON value of key.
func (r Record) Get(key string) (json.RawMessage, bool) {
	for _, f := range r.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// Set sets key to value. An existing key keeps its position.
func (r *Record) Set(key string, value json.RawMessage) {
	for i, f := range r.fields {
		if f.key == key {
			r.fields[i].value = value
			return
		}
	}
	r.fields = append(r.fields, field{key: key, value: value})
}

// Delete removes key from the record, if present.
func (r *Record) Delete(key string) {
	for i, f := range r.fields {
		if f.key == key {
			r.fields = append(r.fields[:i:i], r.fields[i+1:]...)
			return
		}
	}
}

// Keys returns the field names in order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		keys = append(keys, f.key)
	}
	return keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// UnmarshalJSON implements json.Unmarshaler. The data must be a JSON object.
// A duplicated key keeps the position of its first occurrence and its last value.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: record is not a JSON object: %s", ErrFormat, data)
	}

	r.fields = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected object key %v", ErrFormat, tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrFormat, key, err)
		}
		r.Set(key, value)
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if len(f.value) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(f.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalString encodes s as a JSON string without escaping HTML characters.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// clone returns a copy of r which doesn't share its field storage.
func (r Record) clone() Record {
	c := Record{fields: make([]field, len(r.fields))}
	copy(c.fields, r.fields)
	return c
}
