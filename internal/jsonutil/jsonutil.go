// Package jsonutil walks JSON objects in document order.
//
// encoding/json decodes objects into Go maps, which forget key order. The
// settings document and alias maps are written back to disk, so their keys
// are read with [EachMember] and kept in an ordered map instead.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// ErrNotObject indicates the top-level JSON value is not an object.
var ErrNotObject = errors.New("JSON value is not an object")

// EachMember calls fn for every member of the top-level JSON object in data,
// in document order. Values are passed as raw JSON. Trailing data after the
// object is an error.
func EachMember(data []byte, fn func(key string, value json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "reading JSON")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "reading object key")
		}
		key, ok := tok.(string)
		if !ok {
			return errors.Newf("unexpected token %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return errors.Wrapf(err, "reading value of %q", key)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}

	// Closing brace
	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "reading JSON")
	}

	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON object")
	}

	return nil
}

// StringValue decodes raw as a JSON string. Numbers, booleans, null, arrays
// and objects are rejected.
func StringValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", errors.New("value is not a string")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.Wrap(err, "decoding string")
	}
	return s, nil
}

// IsObject reports whether raw holds a JSON object.
func IsObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
