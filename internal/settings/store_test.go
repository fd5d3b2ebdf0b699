package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/tnalias/internal/alias"
	"github.com/thoreinstein/tnalias/internal/codec"
	"github.com/thoreinstein/tnalias/internal/errors"
	"github.com/thoreinstein/tnalias/internal/logging"
	"github.com/thoreinstein/tnalias/pkg/fileutil"
)

const settingsPath = "/home/u/.local/share/godot/app_userdata/Tower Networking Inc/settings.json"

func newTestStore(t *testing.T, fs afero.Fs, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithFs(fs), WithLogger(logging.ForTest(t))}, opts...)
	return NewStore(settingsPath, opts...)
}

// decodeFile parses the settings file into a generic value for
// order-insensitive comparison.
func decodeFile(t *testing.T, fs afero.Fs) any {
	t.Helper()
	data, err := afero.ReadFile(fs, settingsPath)
	require.NoError(t, err)
	var v any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestStore_LoadMissing(t *testing.T) {
	store := newTestStore(t, afero.NewMemMapFs())

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Len())
}

func TestStore_LoadCorrupt(t *testing.T) {
	for _, content := range []string{"{not json", "[1,2,3]", ""} {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(content), 0o644))

		doc, err := newTestStore(t, fs).Load()
		require.NoError(t, err, content)
		assert.Equal(t, 0, doc.Len(), content)
	}
}

func TestStore_LoadPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o000))

	_, err := NewStore(path).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSettingsRead))
}

func TestStore_LoadOversized(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, settingsPath, make([]byte, MaxDocumentSize+1), 0o644))

	_, err := newTestStore(t, fs).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSettingsRead))
	assert.True(t, errors.Is(err, fileutil.ErrFileTooLarge))
	assert.Contains(t, err.Error(), "larger than 16 MiB")
}

func TestStore_MergeAndSave_CreatesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := newTestStore(t, fs)

	err := store.MergeAndSave(alias.FromPairs(alias.Pair{Name: "a", Commands: "say hi"}))
	require.NoError(t, err)

	want := map[string]any{"cmd_alias": map[string]any{"a": "say hi"}}
	assert.Equal(t, want, decodeFile(t, fs))
}

func TestStore_MergeAndSave_ReplacesOnlyAliases(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(`{"volume":0.8,"cmd_alias":{"x":"old"}}`), 0o644))
	store := newTestStore(t, fs)

	err := store.MergeAndSave(alias.FromPairs(alias.Pair{Name: "y", Commands: "new"}))
	require.NoError(t, err)

	want := map[string]any{"volume": 0.8, "cmd_alias": map[string]any{"y": "new"}}
	assert.Equal(t, want, decodeFile(t, fs))
}

func TestStore_MergeAndSave_PreservesSiblings(t *testing.T) {
	original := `{
	"fullscreen": true,
	"cmd_alias": {"old": "x"},
	"keybinds": {"up": [87, 38], "down": [83, 40]},
	"player_name": "nöde \"7\"",
	"volume": 0.80,
	"last_save": null
}`
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(original), 0o600))
	store := newTestStore(t, fs)

	m := alias.FromPairs(
		alias.Pair{Name: "scan", Commands: "net scan;net list"},
		alias.Pair{Name: "up", Commands: "route up"},
	)
	require.NoError(t, store.MergeAndSave(m))

	before, err := ParseDocument([]byte(original))
	require.NoError(t, err)
	after, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, before.Keys(), after.Keys())
	for _, key := range before.Keys() {
		if key == AliasKey {
			continue
		}
		b, _ := before.Get(key)
		a, _ := after.Get(key)
		assert.JSONEq(t, string(b), string(a), key)
	}

	// Numbers keep their original text.
	volume, _ := after.Get("volume")
	assert.Equal(t, "0.80", string(volume))

	got, err := after.Aliases()
	require.NoError(t, err)
	assert.True(t, m.Equal(got))

	info, err := fs.Stat(settingsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_MergeAndSave_CorruptFileStartsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, settingsPath, []byte("garbage"), 0o644))

	require.NoError(t, newTestStore(t, fs).MergeAndSave(alias.FromPairs(alias.Pair{Name: "a", Commands: "b"})))

	want := map[string]any{"cmd_alias": map[string]any{"a": "b"}}
	assert.Equal(t, want, decodeFile(t, fs))
}

func TestStore_MergeAndSave_ReadOnly(t *testing.T) {
	store := newTestStore(t, afero.NewReadOnlyFs(afero.NewMemMapFs()))

	err := store.MergeAndSave(alias.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSettingsWrite))
}

func TestStore_MergeAndSave_BeforeWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	var calls []string
	hook := WithBeforeWrite(func(path string) error {
		calls = append(calls, path)
		return nil
	})
	store := newTestStore(t, fs, hook)

	// No existing file: nothing to back up.
	require.NoError(t, store.MergeAndSave(alias.New()))
	assert.Empty(t, calls)

	require.NoError(t, store.MergeAndSave(alias.New()))
	assert.Equal(t, []string{settingsPath}, calls)
}

func TestStore_MergeAndSave_BeforeWriteFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(`{"keep":1}`), 0o644))

	store := newTestStore(t, fs, WithBeforeWrite(func(string) error {
		return errors.New("backup failed")
	}))

	err := store.MergeAndSave(alias.FromPairs(alias.Pair{Name: "a", Commands: "b"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSettingsWrite))

	data, err := afero.ReadFile(fs, settingsPath)
	require.NoError(t, err)
	assert.Equal(t, `{"keep":1}`, string(data))
}

func TestStore_Aliases(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(`{"cmd_alias":{"a":"b"}}`), 0o644))

	m, err := newTestStore(t, fs).Aliases()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, m.Keys())

	require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(`{"cmd_alias":42}`), 0o644))
	m, err = newTestStore(t, fs).Aliases()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSettingsMissingOrCorrupt))
	assert.Nil(t, m)
}

func TestStore_AliasesMalformedValueKeepsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	original := `{"cmd_alias":{"keep":"say hi","bad":1}}`
	require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(original), 0o644))

	_, err := newTestStore(t, fs).Aliases()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSettingsMissingOrCorrupt))

	data, err := afero.ReadFile(fs, settingsPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestStore_InvalidShareStringWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := newTestStore(t, fs)

	m, err := codec.Decode("not-base64!!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidEncoding))
	assert.Nil(t, m)

	// The caller never reaches MergeAndSave; the file must not exist.
	exists, err := afero.Exists(fs, store.Path())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_RealFilesystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	store := NewStore(path)

	require.NoError(t, store.MergeAndSave(alias.FromPairs(alias.Pair{Name: "a", Commands: "say hi"})))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")

	m, err := store.Aliases()
	require.NoError(t, err)
	v, _ := m.Get("a")
	assert.Equal(t, "say hi", v)
}
