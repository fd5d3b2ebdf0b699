package backup

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/tnalias/internal/backup"
	"github.com/thoreinstein/tnalias/internal/cli"
	"github.com/thoreinstein/tnalias/internal/errors"
)

const settingsPath = "/game/settings.json"

type testEnv struct {
	fs  afero.Fs
	app *cli.App
	out *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(`{"cmd_alias": {"a": "b"}}`), 0o644))
	return &testEnv{
		fs: fs,
		app: cli.NewApp(nil,
			cli.WithFs(fs),
			cli.WithSettingsPath(settingsPath),
			cli.WithBackupDir("/backups"),
			cli.WithVersion("1.2.3"),
		),
		out: &bytes.Buffer{},
	}
}

func (e *testEnv) command(in string) *cobra.Command {
	c := &cobra.Command{}
	c.Flags().Int("keep", -1, "")
	c.SetContext(cli.NewContext(context.Background(), e.app))
	c.SetOut(e.out)
	c.SetErr(e.out)
	c.SetIn(strings.NewReader(in))
	return c
}

func (e *testEnv) settings(t *testing.T) string {
	t.Helper()
	data, err := afero.ReadFile(e.fs, settingsPath)
	require.NoError(t, err)
	return string(data)
}

func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func TestCreateAndList(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, runCreate(env.command(""), nil))
	assert.Contains(t, env.out.String(), "Created backup")

	env.out.Reset()
	require.NoError(t, runList(env.command(""), nil))
	out := env.out.String()
	assert.Contains(t, out, "manual")
	assert.Contains(t, out, "1 backup in /backups")
}

func TestList_JSON(t *testing.T) {
	env := newTestEnv(t)
	setFlag(t, &listJSON, true)
	manifest, err := env.app.Backups().Backup("test", settingsPath)
	require.NoError(t, err)

	require.NoError(t, runList(env.command(""), nil))
	out := env.out.String()
	assert.Contains(t, out, `"id": "`+manifest.ID+`"`)
	assert.Contains(t, out, `"file_count": 1`)
	assert.Contains(t, out, `"tnalias_version": "1.2.3"`)
}

func TestList_Empty(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, runList(env.command(""), nil))
	assert.Contains(t, env.out.String(), "No backups available")
}

func TestCreate_NoSettingsFile(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.fs.Remove(settingsPath))

	err := runCreate(env.command(""), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, backup.ErrNoBackupsFound))
}

func TestRestore_Latest(t *testing.T) {
	env := newTestEnv(t)
	setFlag(t, &restoreYes, true)
	original := env.settings(t)

	_, err := env.app.Backups().Backup("test", settingsPath)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(env.fs, settingsPath, []byte(`{"cmd_alias": {}}`), 0o644))

	require.NoError(t, runRestore(env.command(""), nil))
	assert.Equal(t, original, env.settings(t))
	assert.Contains(t, env.out.String(), "Using most recent backup")
}

func TestRestore_ByIDConfirmed(t *testing.T) {
	env := newTestEnv(t)
	original := env.settings(t)

	manifest, err := env.app.Backups().Backup("test", settingsPath)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(env.fs, settingsPath, []byte(`{}`), 0o644))

	require.NoError(t, runRestore(env.command("y\n"), []string{manifest.ID}))
	assert.Equal(t, original, env.settings(t))
	assert.Contains(t, env.out.String(), "[Y/n]")
}

func TestRestore_Declined(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.app.Backups().Backup("test", settingsPath)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(env.fs, settingsPath, []byte(`{}`), 0o644))

	require.NoError(t, runRestore(env.command("n\n"), nil))
	assert.Equal(t, `{}`, env.settings(t))
}

func TestRestore_NoBackups(t *testing.T) {
	env := newTestEnv(t)

	err := runRestore(env.command(""), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, backup.ErrNoBackupsFound))

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, errors.ExitUser, exitErr.Code)
}

func TestPrune(t *testing.T) {
	env := newTestEnv(t)
	mgr := env.app.Backups()
	for range 3 {
		_, err := mgr.Backup("test", settingsPath)
		require.NoError(t, err)
	}

	c := env.command("")
	require.NoError(t, c.Flags().Set("keep", "1"))
	setFlag(t, &pruneKeep, 1)
	require.NoError(t, runPrune(c, nil))
	assert.Contains(t, env.out.String(), "Removed 2 old backups")

	manifests, err := mgr.List()
	require.NoError(t, err)
	assert.Len(t, manifests, 1)
}

func TestPrune_Nothing(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, runPrune(env.command(""), nil))
	assert.Contains(t, env.out.String(), "No backups to prune")
}

func TestPrune_NegativeKeep(t *testing.T) {
	env := newTestEnv(t)
	c := env.command("")
	require.NoError(t, c.Flags().Set("keep", "-2"))
	setFlag(t, &pruneKeep, -2)

	require.Error(t, runPrune(c, nil))
}
