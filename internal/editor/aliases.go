package editor

import (
	"bytes"
	"os"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/codec"
	"github.com/thoreinstein/tnalias/internal/errors"
)

// ErrInvalidDocument indicates edited text is not a mapping of alias names
// to commands.
var ErrInvalidDocument = errors.New("invalid alias document")

const header = `# Edit aliases below, one per line: name: command;command
# A list of commands is also accepted:
#   name:
#     - command
#     - command
# Save and close the editor to apply. Delete every line to remove all aliases.
`

// MarshalAliases renders m as a YAML mapping in insertion order, preceded by
// an instructional comment.
func MarshalAliases(m *alias.Map) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)
	if m.Len() == 0 {
		return buf.Bytes(), nil
	}

	body, err := codec.Marshal(m, codec.FormatYAML)
	if err != nil {
		return nil, err
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// UnmarshalAliases parses a YAML mapping of alias names to commands. A value
// may be a single string or a list of commands, which is joined. An empty
// document yields an empty map. Duplicate names are rejected.
func UnmarshalAliases(data []byte) (*alias.Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parsing YAML"), ErrInvalidDocument)
	}

	m := alias.New()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return m, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Wrapf(ErrInvalidDocument, "line %d: expected a mapping of alias names", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, errors.Wrapf(ErrInvalidDocument, "line %d: alias name must be text", key.Line)
		}
		name := key.Value
		if _, dup := m.Get(name); dup {
			return nil, errors.Wrapf(ErrInvalidDocument, "line %d: alias %q defined twice", key.Line, name)
		}

		commands, err := nodeCommands(value)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidDocument, "line %d: alias %q: %s", value.Line, name, err)
		}
		m.Set(name, commands)
	}

	return m, nil
}

func nodeCommands(n *yaml.Node) (string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "", nil
		}
		return n.Value, nil
	case yaml.SequenceNode:
		fragments := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return "", errors.New("list items must be text")
			}
			fragments = append(fragments, item.Value)
		}
		return alias.JoinCommands(fragments...), nil
	default:
		return "", errors.New("expected text or a list of commands")
	}
}

// EditAliases writes m to a temporary YAML file, opens it in the user's
// editor and parses the result. The temporary file is removed afterwards.
func EditAliases(m *alias.Map) (*alias.Map, error) {
	return editAliases(afero.NewOsFs(), m, Open)
}

func editAliases(fs afero.Fs, m *alias.Map, openFn func(path string) error) (*alias.Map, error) {
	data, err := MarshalAliases(m)
	if err != nil {
		return nil, err
	}

	f, err := afero.TempFile(fs, os.TempDir(), "tnalias-aliases-*.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "creating temporary file")
	}
	path := f.Name()
	defer func() { _ = fs.Remove(path) }()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "writing temporary file")
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrap(err, "closing temporary file")
	}

	if err := openFn(path); err != nil {
		return nil, err
	}

	edited, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "reading edited file")
	}
	return UnmarshalAliases(edited)
}
