package settings

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/jsonutil"
)

// AliasKey is the settings member that holds the alias map.
const AliasKey = "cmd_alias"

// indent matches the game's own settings writer.
const indent = "    "

// Document is a settings object with members in document order.
type Document struct {
	members *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{members: orderedmap.New[string, json.RawMessage]()}
}

// ParseDocument parses data as a JSON object. Anything else is an error
// marked errors.ErrSettingsMissingOrCorrupt.
func ParseDocument(data []byte) (*Document, error) {
	doc := NewDocument()
	err := jsonutil.EachMember(data, func(key string, value json.RawMessage) error {
		doc.members.Set(key, value)
		return nil
	})
	if err != nil {
		return nil, errors.Mark(err, errors.ErrSettingsMissingOrCorrupt)
	}
	return doc, nil
}

// Len returns the number of top-level members.
func (d *Document) Len() int {
	return d.members.Len()
}

// Keys returns the top-level member names in order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.members.Len())
	for pair := d.members.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Get returns the raw JSON value of key.
func (d *Document) Get(key string) (json.RawMessage, bool) {
	return d.members.Get(key)
}

// HasAliases reports whether the document has a cmd_alias member.
func (d *Document) HasAliases() bool {
	_, ok := d.members.Get(AliasKey)
	return ok
}

// Aliases returns the cmd_alias member. A document without one has no
// aliases. A member that is not an object of strings is an error marked
// errors.ErrSettingsMissingOrCorrupt.
func (d *Document) Aliases() (*alias.Map, error) {
	raw, ok := d.members.Get(AliasKey)
	if !ok {
		return alias.New(), nil
	}
	m, err := alias.Parse(raw)
	if err != nil {
		return nil, errors.WithDetailf(
			errors.Mark(errors.Wrapf(err, "parsing %s", AliasKey), errors.ErrSettingsMissingOrCorrupt),
			"%s is not an object of strings", AliasKey)
	}
	return m, nil
}

// SetAliases replaces the cmd_alias member with m. An existing member keeps
// its position; otherwise it is appended.
func (d *Document) SetAliases(m *alias.Map) {
	if m == nil {
		m = alias.New()
	}
	// An ordered map of strings always marshals.
	raw, _ := m.MarshalJSON()
	d.members.Set(AliasKey, raw)
}

// MarshalJSON encodes the document compactly in member order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for pair := d.members.Oldest(); pair != nil; pair = pair.Next() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := json.Compact(&buf, pair.Value); err != nil {
			return nil, errors.Wrapf(err, "encoding %q", pair.Key)
		}
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Bytes returns the document as written to disk: indented with four spaces
// and terminated by a newline.
func (d *Document) Bytes() ([]byte, error) {
	compact, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", indent); err != nil {
		return nil, errors.Wrap(err, "formatting settings")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
