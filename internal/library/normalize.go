package library

import (
	"bytes"
	"encoding/json"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/codec"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/jsonutil"
)

// Strategy identifies the decoding that produced an alias map.
type Strategy int

const (
	// StrategyNone means no strategy matched.
	StrategyNone Strategy = iota
	// StrategyDirect decodes a JSON object of strings.
	StrategyDirect
	// StrategyWrapped decodes the "plaintext" member of a JSON object.
	StrategyWrapped
	// StrategyBase64 decodes base64 text holding a JSON object of strings.
	StrategyBase64
	// StrategyBlob decodes the base64 "content" member of a blob response.
	StrategyBlob
)

// String returns the strategy name used in logs and CLI output.
func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyWrapped:
		return "wrapped"
	case StrategyBase64:
		return "base64"
	case StrategyBlob:
		return "blob"
	default:
		return "none"
	}
}

// Member names recognized in wrapped and blob shapes.
const (
	plaintextKey = "plaintext"
	contentKey   = "content"
)

// Normalize decodes raw into an alias map. hint names the source file and
// only appears in the error.
func Normalize(raw []byte, hint string) (*alias.Map, error) {
	m, _, err := NormalizeWithStrategy(raw, hint)
	return m, err
}

// NormalizeWithStrategy is Normalize that also reports which strategy matched.
func NormalizeWithStrategy(raw []byte, hint string) (*alias.Map, Strategy, error) {
	if m, s := decodePlain(raw); m != nil {
		return m, s, nil
	}

	if payload, ok := blobContent(raw); ok {
		// One level only: a blob inside a blob is not a library file.
		if m, _ := decodePlain(payload); m != nil {
			return m, StrategyBlob, nil
		}
	}

	return nil, StrategyNone, errors.WithDetailf(
		errors.Wrapf(errors.ErrUnrecognizedLibraryFormat, "%s", hint),
		"%s is not a JSON alias map, a wrapped map, base64 of a map, or a blob holding one", hint)
}

// decodePlain runs strategies 1 to 3 on raw.
func decodePlain(raw []byte) (*alias.Map, Strategy) {
	if m, err := alias.Parse(raw); err == nil {
		return m, StrategyDirect
	}

	if m := wrappedMap(raw); m != nil {
		return m, StrategyWrapped
	}

	if data, err := codec.DecodeBase64(codec.StripSpace(string(raw))); err == nil && len(data) > 0 {
		if m, err := alias.Parse(data); err == nil {
			return m, StrategyBase64
		}
	}

	return nil, StrategyNone
}

// wrappedMap returns the "plaintext" member of raw when it is an object of strings.
func wrappedMap(raw []byte) *alias.Map {
	member, ok := objectMember(raw, plaintextKey)
	if !ok || !jsonutil.IsObject(member) {
		return nil
	}
	m, err := alias.Parse(member)
	if err != nil {
		return nil
	}
	return m
}

// blobContent returns the base64-decoded "content" member of raw.
func blobContent(raw []byte) ([]byte, bool) {
	member, ok := objectMember(raw, contentKey)
	if !ok {
		return nil, false
	}
	text, err := jsonutil.StringValue(member)
	if err != nil {
		return nil, false
	}
	data, err := codec.DecodeBase64(codec.StripSpace(text))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// objectMember returns the raw value of key when raw is a JSON object holding it.
func objectMember(raw []byte, key string) (json.RawMessage, bool) {
	var found json.RawMessage
	err := jsonutil.EachMember(raw, func(k string, v json.RawMessage) error {
		if k == key {
			found = v
		}
		return nil
	})
	if err != nil || found == nil {
		return nil, false
	}
	return found, true
}

// Canonical serializes m in the strategy-1 shape used for cache files:
// a JSON object indented with four spaces, like the game's own settings file,
// and a trailing newline.
func Canonical(m *alias.Map) []byte {
	compact, _ := m.MarshalJSON()

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "    "); err != nil {
		buf.Reset()
		buf.Write(compact)
	}
	buf.WriteByte('\n')

	return buf.Bytes()
}
