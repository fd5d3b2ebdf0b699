package alias

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/codec"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/settings"
)

const settingsPath = "/game/settings.json"

type testEnv struct {
	fs  afero.Fs
	app *cli.App
	out *bytes.Buffer
}

func newTestEnv(t *testing.T, document string) *testEnv {
	t.Helper()
	color.NoColor = true

	fs := afero.NewMemMapFs()
	if document != "" {
		require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(document), 0o644))
	}
	return &testEnv{
		fs: fs,
		app: cli.NewApp(nil,
			cli.WithFs(fs),
			cli.WithSettingsPath(settingsPath),
			cli.WithBackupDir("/backups"),
		),
		out: &bytes.Buffer{},
	}
}

// command returns a command carrying the env's App, reading stdin from in.
func (e *testEnv) command(in string) *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(cli.NewContext(context.Background(), e.app))
	c.SetOut(e.out)
	c.SetErr(e.out)
	c.SetIn(strings.NewReader(in))
	return c
}

func (e *testEnv) aliases(t *testing.T) *alias.Map {
	t.Helper()
	m, err := settings.NewStore(settingsPath, settings.WithFs(e.fs)).Aliases()
	require.NoError(t, err)
	return m
}

func (e *testEnv) document(t *testing.T) string {
	t.Helper()
	data, err := afero.ReadFile(e.fs, settingsPath)
	require.NoError(t, err)
	return string(data)
}

// setFlag sets a package flag variable for the duration of the test.
func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
	return exitErr.Code
}

const sampleDocument = `{"volume": 0.5, "cmd_alias": {"ll": "ls -l", "scan": "nmap 10.0.0.0/24;netstat"}}`

func TestList(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	require.NoError(t, runList(env.command(""), nil))
	out := env.out.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "ls -l")
	assert.Contains(t, out, "netstat")
	assert.Contains(t, out, "2 aliases")
	assert.Less(t, strings.Index(out, "ll"), strings.Index(out, "scan"))
}

func TestList_JSON(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	setFlag(t, &listJSON, true)

	require.NoError(t, runList(env.command(""), nil))
	assert.JSONEq(t, `{"ll": "ls -l", "scan": "nmap 10.0.0.0/24;netstat"}`, env.out.String())
}

func TestList_MissingSettings(t *testing.T) {
	env := newTestEnv(t, "")

	require.NoError(t, runList(env.command(""), nil))
	assert.Contains(t, env.out.String(), "No aliases defined")
}

func TestList_MalformedAliases(t *testing.T) {
	env := newTestEnv(t, `{"cmd_alias": ["not", "an", "object"]}`)

	err := runList(env.command(""), nil)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, exitCode(t, err))
	assert.True(t, errors.Is(err, errors.ErrSettingsMissingOrCorrupt))
}

func TestShow(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	require.NoError(t, runShow(env.command(""), nil))
	assert.Equal(t, "{\n  \"ll\": \"ls -l\",\n  \"scan\": \"nmap 10.0.0.0/24;netstat\"\n}\n", env.out.String())
}

func TestShow_Name(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	require.NoError(t, runShow(env.command(""), []string{"scan"}))
	assert.Equal(t, "nmap 10.0.0.0/24\nnetstat\n", env.out.String())
}

func TestShow_NameJSON(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	setFlag(t, &showJSON, true)

	require.NoError(t, runShow(env.command(""), []string{"scan"}))
	assert.JSONEq(t, `{"name":"scan","value":"nmap 10.0.0.0/24;netstat","commands":["nmap 10.0.0.0/24","netstat"]}`,
		env.out.String())
}

func TestShow_NotFound(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	err := runShow(env.command(""), []string{"nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, alias.ErrNotFound))
	assert.Equal(t, errors.ExitUser, exitCode(t, err))
}

func TestSet(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	require.NoError(t, runSet(env.command(""), []string{"ll", "ls -la", " pwd "}))
	assert.Contains(t, env.out.String(), "Updated alias ll = ls -la;pwd")

	require.NoError(t, runSet(env.command(""), []string{"new", "whoami"}))

	m := env.aliases(t)
	assert.Equal(t, []string{"ll", "scan", "new"}, m.Keys())
	v, _ := m.Get("ll")
	assert.Equal(t, "ls -la;pwd", v)
	assert.Contains(t, env.document(t), `"volume": 0.5`)
}

func TestSet_NoCommands(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	err := runSet(env.command(""), []string{"ll", " ", ";"})
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, exitCode(t, err))

	v, _ := env.aliases(t).Get("ll")
	assert.Equal(t, "ls -l", v)
}

func TestSet_InvalidName(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	err := runSet(env.command(""), []string{"two words", "ls"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, cli.ErrValidation))
	assert.Equal(t, 2, env.aliases(t).Len())
}

func TestRemove(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	require.NoError(t, runRemove(env.command(""), []string{"ll"}))
	assert.Equal(t, []string{"scan"}, env.aliases(t).Keys())
}

func TestRemove_MissingNameChangesNothing(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	err := runRemove(env.command(""), []string{"ll", "nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, alias.ErrNotFound))
	assert.Contains(t, err.Error(), "nope")
	assert.Equal(t, 2, env.aliases(t).Len())
}

const malformedDocument = `{"volume": 0.5, "cmd_alias": {"keep": "say hi", "bad": 1}}`

func TestSetAndRemove_MalformedAliasesKeepDocument(t *testing.T) {
	env := newTestEnv(t, malformedDocument)

	err := runSet(env.command(""), []string{"x", "y"})
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, exitCode(t, err))
	assert.True(t, errors.Is(err, errors.ErrSettingsMissingOrCorrupt))

	err = runRemove(env.command(""), []string{"keep"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSettingsMissingOrCorrupt))

	assert.Equal(t, malformedDocument, env.document(t))
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	require.NoError(t, runSearch(env.command(""), []string{"NMAP"}))
	out := env.out.String()
	assert.Contains(t, out, "scan")
	assert.NotContains(t, out, "ls -l")
	assert.Contains(t, out, "1 match of 2")
}

func TestSearch_NoMatch(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	require.NoError(t, runSearch(env.command(""), []string{"zzz"}))
	assert.Contains(t, env.out.String(), `No aliases match "zzz"`)
}

func TestExport_Share(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	require.NoError(t, runExport(env.command(""), nil))

	m, err := codec.Decode(env.out.String())
	require.NoError(t, err)
	assert.True(t, m.Equal(env.aliases(t)))
}

func TestExport_FileFormat(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	setFlag(t, &exportFormat, "yaml")
	setFlag(t, &exportOutput, "/out/aliases.yaml")
	require.NoError(t, env.fs.MkdirAll("/out", 0o755))

	require.NoError(t, runExport(env.command(""), nil))

	data, err := afero.ReadFile(env.fs, "/out/aliases.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "ll: ls -l")
	assert.Contains(t, env.out.String(), "Exported 2 aliases")
}

func TestExport_UnknownFormat(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	setFlag(t, &exportFormat, "xml")

	err := runExport(env.command(""), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrUnknownFormat))
}

func shareOf(pairs ...alias.Pair) string {
	return codec.Encode(alias.FromPairs(pairs...))
}

func TestImport_ReplacesOnConfirm(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	share := shareOf(alias.Pair{Name: "x", Commands: "y"})

	require.NoError(t, runImport(env.command("\n"), []string{share}))

	assert.Equal(t, []string{"x"}, env.aliases(t).Keys())
	out := env.out.String()
	assert.Contains(t, out, "+ x = y")
	assert.Contains(t, out, "- ll")
	assert.Contains(t, out, "[Y/n]")
	assert.Contains(t, env.document(t), `"volume": 0.5`)
}

func TestImport_Declined(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	before := env.document(t)

	require.NoError(t, runImport(env.command("n\n"), []string{shareOf(alias.Pair{Name: "x", Commands: "y"})}))
	assert.Equal(t, before, env.document(t))
}

func TestImport_Merge(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	setFlag(t, &importMerge, true)
	setFlag(t, &importYes, true)

	share := shareOf(alias.Pair{Name: "ll", Commands: "ls -la"}, alias.Pair{Name: "x", Commands: "y"})
	require.NoError(t, runImport(env.command(""), []string{share}))

	m := env.aliases(t)
	assert.Equal(t, []string{"ll", "scan", "x"}, m.Keys())
	v, _ := m.Get("ll")
	assert.Equal(t, "ls -la", v)
}

func TestImport_Stdin(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	setFlag(t, &importYes, true)

	share := shareOf(alias.Pair{Name: "x", Commands: "y"})
	wrapped := share[:4] + "\n" + share[4:] + "\n"
	require.NoError(t, runImport(env.command(wrapped), []string{"-"}))
	assert.Equal(t, []string{"x"}, env.aliases(t).Keys())
}

func TestImport_StdinNeedsYes(t *testing.T) {
	env := newTestEnv(t, sampleDocument)

	err := runImport(env.command("abc"), nil)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, exitCode(t, err))
}

func TestImport_InvalidWritesNothing(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	before := env.document(t)

	err := runImport(env.command("\n"), []string{"!!!not base64"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidEncoding))
	assert.Equal(t, errors.ExitUser, exitCode(t, err))
	assert.Equal(t, before, env.document(t))
}

func TestImport_ReplacesMalformedAliases(t *testing.T) {
	env := newTestEnv(t, malformedDocument)
	setFlag(t, &importYes, true)

	require.NoError(t, runImport(env.command(""), []string{shareOf(alias.Pair{Name: "x", Commands: "y"})}))
	assert.Equal(t, []string{"x"}, env.aliases(t).Keys())
	assert.Contains(t, env.document(t), `"volume": 0.5`)
}

func TestImport_MergeIntoMalformedAliasesFails(t *testing.T) {
	env := newTestEnv(t, malformedDocument)
	setFlag(t, &importYes, true)
	setFlag(t, &importMerge, true)

	err := runImport(env.command(""), []string{shareOf(alias.Pair{Name: "x", Commands: "y"})})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSettingsMissingOrCorrupt))
	assert.Equal(t, malformedDocument, env.document(t))
}

func TestEdit(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	setFlag(t, &editYes, true)
	setFlag(t, &editAliases, func(m *alias.Map) (*alias.Map, error) {
		out := m.Clone()
		out.Delete("ll")
		out.Set("new", "pwd")
		return out, nil
	})

	require.NoError(t, runEdit(env.command(""), nil))
	assert.Equal(t, []string{"scan", "new"}, env.aliases(t).Keys())
}

func TestEdit_ValidationBlocksWrite(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	setFlag(t, &editYes, true)
	setFlag(t, &editAliases, func(m *alias.Map) (*alias.Map, error) {
		out := m.Clone()
		out.Set("empty", "")
		return out, nil
	})

	err := runEdit(env.command(""), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cli.ErrValidation))
	assert.Equal(t, 2, env.aliases(t).Len())
}

func TestEdit_EditorFailure(t *testing.T) {
	env := newTestEnv(t, sampleDocument)
	setFlag(t, &editAliases, func(*alias.Map) (*alias.Map, error) {
		return nil, errors.New("editor exited with status 1")
	})

	err := runEdit(env.command(""), nil)
	require.Error(t, err)
	assert.Equal(t, errors.ExitSystem, exitCode(t, err))
}
