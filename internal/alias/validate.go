package alias

import (
	"strings"
	"unicode"

	"github.com/thoreinstein/tnalias/internal/validator"
)

// Validate checks the structure of m. The meaning of individual commands is
// not checked.
//
// Errors: empty names, names containing whitespace, empty command sequences.
// Warnings: empty fragments (stray separators), surrounding whitespace on a
// fragment, a command repeated within one alias.
func Validate(m *Map) *validator.Result {
	result := &validator.Result{}

	for _, p := range m.Pairs() {
		name := p.Name
		if name == "" {
			result.Add(validator.SeverityError, name, "alias name is empty", "")
			continue
		}
		if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
			result.Add(validator.SeverityError, name, "alias name contains whitespace", "")
		}

		fragments := SplitCommands(p.Commands)
		if len(fragments) == 0 {
			result.Add(validator.SeverityError, name, "alias has no commands", p.Commands)
			continue
		}

		raw := strings.Split(p.Commands, Separator)
		if len(raw) != len(fragments) {
			result.Add(validator.SeverityWarning, name, "empty command between separators", p.Commands)
		}
		for _, r := range raw {
			if t := strings.TrimSpace(r); t != "" && t != r {
				result.Add(validator.SeverityWarning, name, "command has surrounding whitespace", r)
				break
			}
		}

		seen := make(map[string]bool, len(fragments))
		for _, f := range fragments {
			if seen[f] {
				result.Add(validator.SeverityWarning, name, "command repeated", f)
				break
			}
			seen[f] = true
		}
	}

	return result
}

// Canonicalize returns a copy of m with every command sequence rewritten by
// JoinCommands. Names and order are unchanged.
func Canonicalize(m *Map) *Map {
	out := New()
	for _, p := range m.Pairs() {
		out.Set(p.Name, JoinCommands(p.Commands))
	}
	return out
}
