package codec

import (
	"bytes"
	"encoding/json"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/errors"
)

// Format names an export representation of an alias map.
type Format string

const (
	// FormatShare is the base64 share string.
	FormatShare Format = "share"
	// FormatJSON is an indented JSON object, the plain text view.
	FormatJSON Format = "json"
	// FormatYAML is a YAML mapping.
	FormatYAML Format = "yaml"
	// FormatTOML is a list of [[alias]] tables.
	FormatTOML Format = "toml"
)

// ErrUnknownFormat indicates an export format name is not recognized.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats returns the supported export formats.
func Formats() []Format {
	return []Format{FormatShare, FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat returns the Format named s, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// tomlDocument keeps alias order, which a TOML table would not.
type tomlDocument struct {
	Alias []alias.Pair `toml:"alias"`
}

// Marshal renders m in format f. Every format keeps m's order and ends with
// a newline.
func Marshal(m *alias.Map, f Format) ([]byte, error) {
	if m == nil {
		m = alias.New()
	}

	switch f {
	case FormatShare:
		return []byte(Encode(m) + "\n"), nil

	case FormatJSON:
		return PlainText(m), nil

	case FormatYAML:
		if m.Len() == 0 {
			return []byte("{}\n"), nil
		}
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, p := range m.Pairs() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Name},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Commands},
			)
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return nil, errors.Wrap(err, "encoding YAML")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encoding YAML")
		}
		return buf.Bytes(), nil

	case FormatTOML:
		data, err := toml.Marshal(tomlDocument{Alias: m.Pairs()})
		if err != nil {
			return nil, errors.Wrap(err, "encoding TOML")
		}
		return data, nil

	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", string(f))
	}
}

// PlainText returns m as a JSON object indented by two spaces, the
// human-readable view of the alias set.
func PlainText(m *alias.Map) []byte {
	if m == nil || m.Len() == 0 {
		return []byte("{}\n")
	}
	// Marshaling an ordered map of strings cannot fail.
	compact, _ := m.MarshalJSON()
	var buf bytes.Buffer
	_ = json.Indent(&buf, compact, "", "  ")
	buf.WriteByte('\n')
	return buf.Bytes()
}
