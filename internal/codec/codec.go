// Package codec converts alias maps to and from share strings.
//
// A share string is the standard base64 encoding of the compact JSON object
// form of an alias map. It is the only interchange format for copy and paste
// between players.
package codec

import (
	"encoding/base64"
	"strings"
	"unicode"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/errors"
)

// Encode returns the share string for m. Keys keep m's order, so equal maps
// always produce the same string.
func Encode(m *alias.Map) string {
	if m == nil {
		m = alias.New()
	}
	// Marshaling an ordered map of strings cannot fail.
	data, _ := m.MarshalJSON()
	return base64.StdEncoding.EncodeToString(data)
}

// Decode parses a share string. Whitespace anywhere in text is ignored, so
// strings wrapped by chat clients still decode. Invalid base64, invalid JSON,
// or anything other than an object of strings fails with
// errors.ErrInvalidEncoding and returns no partial result.
func Decode(text string) (*alias.Map, error) {
	compact := StripSpace(text)
	if compact == "" {
		return nil, errors.WithDetail(errors.ErrInvalidEncoding, "share string is empty")
	}

	data, err := DecodeBase64(compact)
	if err != nil {
		return nil, errors.WithDetail(errors.Mark(err, errors.ErrInvalidEncoding), "share string is not valid base64")
	}

	m, err := alias.Parse(data)
	if err != nil {
		return nil, errors.WithDetail(errors.Mark(err, errors.ErrInvalidEncoding), "share string does not hold an alias map")
	}

	return m, nil
}

// DecodeBase64 decodes standard base64, padded or not.
func DecodeBase64(s string) ([]byte, error) {
	if strings.HasSuffix(s, "=") || len(s)%4 == 0 {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// StripSpace removes all Unicode whitespace from s.
func StripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
