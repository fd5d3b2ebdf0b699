package alias

import (
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/jsonutil"
)

// Separator joins command fragments inside one alias value.
const Separator = ";"

// ErrEmptyName indicates an alias with an empty name.
var ErrEmptyName = errors.New("alias name is empty")

// ErrNotFound indicates no alias has the requested name.
var ErrNotFound = errors.New("alias not found")

// Map is an ordered alias-name to command-sequence mapping.
// The zero value is not usable; construct with New or FromPairs.
type Map struct {
	om *orderedmap.OrderedMap[string, string]
}

// Pair is a single alias entry.
type Pair struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Commands string `json:"commands" yaml:"commands" toml:"commands"`
}

// New returns an empty Map.
func New() *Map {
	return &Map{om: orderedmap.New[string, string]()}
}

// FromPairs builds a Map from pairs in order. Later duplicates replace the
// value of earlier ones without moving them.
func FromPairs(pairs ...Pair) *Map {
	m := New()
	for _, p := range pairs {
		m.Set(p.Name, p.Commands)
	}
	return m
}

// Len returns the number of aliases.
func (m *Map) Len() int {
	if m == nil || m.om == nil {
		return 0
	}
	return m.om.Len()
}

// Get returns the command sequence for name.
func (m *Map) Get(name string) (string, bool) {
	if m == nil || m.om == nil {
		return "", false
	}
	return m.om.Get(name)
}

// Set adds or replaces name. A replaced alias keeps its position.
func (m *Map) Set(name, commands string) {
	m.om.Set(name, commands)
}

// Delete removes name and reports whether it was present.
func (m *Map) Delete(name string) bool {
	_, ok := m.om.Delete(name)
	return ok
}

// Keys returns alias names in order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	for _, p := range m.Pairs() {
		keys = append(keys, p.Name)
	}
	return keys
}

// Pairs returns the entries in order.
func (m *Map) Pairs() []Pair {
	if m.Len() == 0 {
		return nil
	}
	pairs := make([]Pair, 0, m.om.Len())
	for el := m.om.Oldest(); el != nil; el = el.Next() {
		pairs = append(pairs, Pair{Name: el.Key, Commands: el.Value})
	}
	return pairs
}

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	return FromPairs(m.Pairs()...)
}

// Equal reports whether m and other hold the same entries in the same order.
func (m *Map) Equal(other *Map) bool {
	a, b := m.Pairs(), other.Pairs()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Filter returns the aliases whose name or commands contain query,
// ignoring case. An empty query returns a clone of m.
func (m *Map) Filter(query string) *Map {
	q := strings.ToLower(strings.TrimSpace(query))
	out := New()
	for _, p := range m.Pairs() {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Commands), q) {
			out.Set(p.Name, p.Commands)
		}
	}
	return out
}

// ToStringMap returns an unordered copy, for encoders that need a plain map.
func (m *Map) ToStringMap() map[string]string {
	out := make(map[string]string, m.Len())
	for _, p := range m.Pairs() {
		out[p.Name] = p.Commands
	}
	return out
}

// MarshalJSON encodes m as a JSON object in insertion order without
// insignificant whitespace.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m.Len() == 0 {
		return []byte("{}"), nil
	}
	return m.om.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object whose values are all strings. Any other
// shape fails and leaves m empty. Empty names are rejected.
func (m *Map) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	m.om = parsed.om
	return nil
}

// Parse decodes data as a JSON object of string to string, keeping key order.
// The check is all-or-nothing: one non-string value or an empty name rejects
// the whole input.
func Parse(data []byte) (*Map, error) {
	m := New()
	err := jsonutil.EachMember(data, func(name string, raw json.RawMessage) error {
		if name == "" {
			return ErrEmptyName
		}
		commands, err := jsonutil.StringValue(raw)
		if err != nil {
			return errors.Wrapf(err, "alias %q", name)
		}
		m.Set(name, commands)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// SplitCommands splits a stored command sequence into trimmed, non-empty
// fragments.
func SplitCommands(commands string) []string {
	parts := strings.Split(commands, Separator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinCommands trims each fragment, drops empty ones and joins the rest with
// Separator.
func JoinCommands(fragments ...string) string {
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		// A fragment may itself hold several commands.
		kept = append(kept, SplitCommands(f)...)
	}
	return strings.Join(kept, Separator)
}
