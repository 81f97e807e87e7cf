// Package jsonutil walks and encodes untyped JSON values decoded into
// map[string]any / []any trees.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Get walks obj along path and returns the value found there.
// It never fails: a missing key or a non-object on the way yields (nil, false).
func Get(obj any, path ...string) (any, bool) {
	cur := obj
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Map returns the object at path, if there is one.
func Map(obj any, path ...string) (map[string]any, bool) {
	v, _ := Get(obj, path...)
	m, ok := v.(map[string]any)
	return m, ok
}

// List returns the array at path, if there is one.
func List(obj any, path ...string) ([]any, bool) {
	v, _ := Get(obj, path...)
	l, ok := v.([]any)
	return l, ok
}

// Truthy reports whether v counts as "set": non-null, non-false, non-zero,
// and non-empty for strings, arrays and objects.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// Decode parses a single JSON document. Numbers are kept as json.Number so
// that raw values survive a round trip untouched.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid character after top-level value at offset %d", dec.InputOffset())
	}
	return v, nil
}

// Encode writes v as indented JSON (4 spaces) without escaping non-ASCII
// or HTML characters.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}
