package codec

import (
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/errors"
)

func sample() *alias.Map {
	return alias.FromPairs(
		alias.Pair{Name: "zz", Commands: "ls;pwd"},
		alias.Pair{Name: "aa", Commands: "connect 10.0.0.1"},
	)
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, got)

	_, err = ParseFormat("xml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestMarshal_Share(t *testing.T) {
	data, err := Marshal(sample(), FormatShare)
	require.NoError(t, err)

	m, err := Decode(string(data))
	require.NoError(t, err)
	assert.True(t, sample().Equal(m))
}

func TestMarshal_JSON(t *testing.T) {
	data, err := Marshal(sample(), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"zz\": \"ls;pwd\",\n  \"aa\": \"connect 10.0.0.1\"\n}\n", string(data))

	empty, err := Marshal(alias.New(), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(empty))
}

func TestMarshal_YAML(t *testing.T) {
	data, err := Marshal(sample(), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "zz: ls;pwd\naa: connect 10.0.0.1\n", string(data))

	var back map[string]string
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, sample().ToStringMap(), back)

	empty, err := Marshal(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(empty))
}

func TestMarshal_TOML(t *testing.T) {
	data, err := Marshal(sample(), FormatTOML)
	require.NoError(t, err)

	var back tomlDocument
	require.NoError(t, toml.Unmarshal(data, &back))
	assert.Equal(t, sample().Pairs(), back.Alias)
	assert.Contains(t, string(data), "[[alias]]")
}

func TestMarshal_Unknown(t *testing.T) {
	_, err := Marshal(sample(), Format("xml"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
