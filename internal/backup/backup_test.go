package backup

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/tnalias/internal/errors"
)

const (
	backupRoot   = "/data/tnalias/backups"
	settingsFile = "/home/u/.local/share/godot/app_userdata/Tower Networking Inc/settings.json"
)

// newTestManager returns a Manager on an in-memory filesystem whose clock
// advances one minute per backup.
func newTestManager(t *testing.T, opts ...Option) (*Manager, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	m := NewManager(append([]Option{WithFs(fs), WithBackupDir(backupRoot), WithToolVersion("1.2.3")}, opts...)...)

	clock := time.Date(2026, 1, 23, 10, 7, 12, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return m, fs
}

func writeSettings(t *testing.T, fs afero.Fs, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(settingsFile), 0o755))
	require.NoError(t, afero.WriteFile(fs, settingsFile, []byte(content), 0o600))
}

func TestBackup_CreatesManifest(t *testing.T) {
	m, fs := newTestManager(t)
	writeSettings(t, fs, `{"cmd_alias":{"a":"b"}}`)

	manifest, err := m.Backup("test", settingsFile, "/does/not/exist")
	require.NoError(t, err)

	assert.Equal(t, ManifestVersion, manifest.Version)
	assert.Equal(t, "test", manifest.Reason)
	assert.Equal(t, "1.2.3", manifest.ToolVersion)
	require.Len(t, manifest.Files, 1)
	assert.Equal(t, settingsFile, manifest.Files[0].OriginalPath)
	assert.Equal(t, int64(len(`{"cmd_alias":{"a":"b"}}`)), manifest.Files[0].Size)

	got, err := m.Get(manifest.ID)
	require.NoError(t, err)
	assert.Equal(t, manifest.Files, got.Files)

	copied, err := afero.ReadFile(fs, filepath.Join(backupRoot, manifest.ID, manifest.Files[0].RelPath))
	require.NoError(t, err)
	assert.Equal(t, `{"cmd_alias":{"a":"b"}}`, string(copied))
}

func TestBackup_NothingToBackUp(t *testing.T) {
	m, fs := newTestManager(t)

	_, err := m.Backup("test", settingsFile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoBackupsFound))

	exists, err := afero.DirExists(fs, backupRoot)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBackup_Collision(t *testing.T) {
	m, fs := newTestManager(t)
	writeSettings(t, fs, `{}`)
	fixed := time.Date(2026, 1, 23, 10, 7, 12, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	first, err := m.Backup("one", settingsFile)
	require.NoError(t, err)
	second, err := m.Backup("two", settingsFile)
	require.NoError(t, err)

	assert.Equal(t, "20260123T100712", first.ID)
	assert.Equal(t, "20260123T100712-02", second.ID)

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "ties sort by ID, newest first")
}

func TestRestore(t *testing.T) {
	m, fs := newTestManager(t)
	writeSettings(t, fs, `{"cmd_alias":{"old":"x"}}`)

	manifest, err := m.Backup("test", settingsFile)
	require.NoError(t, err)

	writeSettings(t, fs, `{"cmd_alias":{"new":"y"}}`)

	_, err = m.Restore(manifest.ID)
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, settingsFile)
	require.NoError(t, err)
	assert.Equal(t, `{"cmd_alias":{"old":"x"}}`, string(data))

	info, err := fs.Stat(settingsFile)
	require.NoError(t, err)
	assert.Equal(t, manifest.Files[0].Mode, info.Mode().Perm())

	// The overwritten state was itself backed up.
	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "before restore of "+manifest.ID, list[0].Reason)
}

func TestRestore_Corrupted(t *testing.T) {
	m, fs := newTestManager(t)
	writeSettings(t, fs, `{"a":1}`)

	manifest, err := m.Backup("test", settingsFile)
	require.NoError(t, err)

	copyPath := filepath.Join(backupRoot, manifest.ID, manifest.Files[0].RelPath)
	require.NoError(t, afero.WriteFile(fs, copyPath, []byte("tampered"), 0o600))

	_, err = m.Restore(manifest.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackupCorrupted))
}

func TestGet_InvalidID(t *testing.T) {
	m, _ := newTestManager(t)

	for _, id := range []string{"", "..", "../x", "a/b"} {
		_, err := m.Get(id)
		assert.Error(t, err, id)
	}

	_, err := m.Get("20990101T000000")
	assert.True(t, errors.Is(err, ErrNoBackupsFound))
}

func TestPrune(t *testing.T) {
	m, fs := newTestManager(t)
	writeSettings(t, fs, `{}`)

	var ids []string
	for range 4 {
		manifest, err := m.Backup("test", settingsFile)
		require.NoError(t, err)
		ids = append(ids, manifest.ID)
	}

	removed, err := m.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[3], list[0].ID)
	assert.Equal(t, ids[2], list[1].ID)

	latest, err := m.Latest()
	require.NoError(t, err)
	assert.Equal(t, ids[3], latest.ID)
}

func TestPrune_NoBackups(t *testing.T) {
	m, _ := newTestManager(t)

	removed, err := m.Prune(1)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestBeforeWrite_OncePerPath(t *testing.T) {
	m, fs := newTestManager(t, WithRetentionCount(1))
	writeSettings(t, fs, `{}`)

	require.NoError(t, m.BeforeWrite(settingsFile))
	require.NoError(t, m.BeforeWrite(settingsFile))

	list, err := m.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBeforeWrite_Retention(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSettings(t, fs, `{}`)

	for range 3 {
		// A new Manager per session, as with separate CLI invocations.
		m := NewManager(WithFs(fs), WithBackupDir(backupRoot), WithRetentionCount(2))
		base := time.Now()
		m.now = func() time.Time { return base }
		require.NoError(t, m.BeforeWrite(settingsFile))
	}

	m := NewManager(WithFs(fs), WithBackupDir(backupRoot))
	list, err := m.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBeforeWrite_MissingFile(t *testing.T) {
	m, _ := newTestManager(t)
	assert.NoError(t, m.BeforeWrite(settingsFile))
}

func TestGenerateRelPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/usr/local/settings.json", "usr/local/settings.json"},
		{"file:name", "filename"},
	}

	for _, tt := range tests {
		got := generateRelPath(tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
	}
}

func TestManifest_SizeAndCovers(t *testing.T) {
	m, fs := newTestManager(t)
	writeSettings(t, fs, `{"cmd_alias":{"a":"b"}}`)

	manifest, err := m.Backup("test", settingsFile)
	require.NoError(t, err)

	assert.Equal(t, int64(len(`{"cmd_alias":{"a":"b"}}`)), manifest.Size())
	assert.True(t, manifest.Covers(settingsFile))
	assert.False(t, manifest.Covers("/other/settings.json"))
	assert.Zero(t, (&BackupManifest{}).Size())
}

func TestList_SkipsUnknownManifestVersion(t *testing.T) {
	m, fs := newTestManager(t)
	writeSettings(t, fs, `{}`)

	kept, err := m.Backup("test", settingsFile)
	require.NoError(t, err)

	future := filepath.Join(backupRoot, "20990101T000000")
	require.NoError(t, fs.MkdirAll(future, 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(future, manifestFile),
		[]byte(`{"version": 2, "created_at": "2099-01-01T00:00:00Z", "files": []}`), 0o600))

	_, err = m.Get("20990101T000000")
	require.Error(t, err)

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
}
