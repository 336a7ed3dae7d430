package data

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// ErrBodyNotObject is returned by ParseBody when the payload is valid JSON
// but not an object.
var ErrBodyNotObject = errors.New("body must be a JSON object")

// Body is a decoded JSON request object. Keys are kept in the order the
// client sent them; a repeated key keeps its first position and its last
// value.
type Body struct {
	keys   []string
	values map[string]json.RawMessage
}

// ParseBody decodes raw into a Body. An empty payload gives an empty Body; a
// literal null is rejected like any other non-object.
func ParseBody(raw []byte) (*Body, error) {
	b := &Body{values: make(map[string]json.RawMessage)}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err == io.EOF {
		return b, nil
	}
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrBodyNotObject
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Errorf("unexpected token %v in object", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		if _, seen := b.values[key]; !seen {
			b.keys = append(b.keys, key)
		}
		b.values[key] = value
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return b, nil
}

// Len returns the number of distinct keys.
func (b *Body) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// Keys returns the keys in the order they were sent.
func (b *Body) Keys() []string {
	if b == nil {
		return nil
	}
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Raw returns the undecoded value for key.
func (b *Body) Raw(key string) (json.RawMessage, bool) {
	if b == nil {
		return nil, false
	}
	v, ok := b.values[key]
	return v, ok
}

// value decodes raw into a generic Go value for use in error details.
func value(raw json.RawMessage) interface{} {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// isNull reports whether raw is the JSON literal null.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// isFalsy reports whether raw holds null, false, a numeric zero or the empty
// string.
func isFalsy(raw json.RawMessage) bool {
	switch v := value(raw).(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		return v == ""
	}
	return false
}
