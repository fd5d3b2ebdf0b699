package doctor

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionFixer_CanFix(t *testing.T) {
	tests := []struct {
		name   string
		issues []pathIssue
		want   int
	}{
		{name: "no issues", issues: nil, want: 0},
		{
			name:   "non-fixable issue",
			issues: []pathIssue{{Path: "/a", Type: KindFile, Severity: SeverityError}},
			want:   0,
		},
		{
			name:   "fixable issue",
			issues: []pathIssue{{Path: "/a", Type: KindFile, Severity: SeverityWarning, Fixable: true}},
			want:   1,
		},
		{
			name: "mixed issues",
			issues: []pathIssue{
				{Path: "/a", Fixable: false},
				{Path: "/b", Fixable: true},
				{Path: "/c", Fixable: true},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &PermissionFixer{}
			f.setIssues(tt.issues)
			assert.Equal(t, tt.want, f.CountFixable())
			assert.Equal(t, tt.want > 0, f.CanFix())
		})
	}
}

func TestPermissionFixer_Fix(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/game/settings.json", []byte("{}"), 0o666))
	require.NoError(t, fs.Chmod("/game/settings.json", 0o666))
	require.NoError(t, fs.MkdirAll("/data/library", 0o777))
	require.NoError(t, fs.Chmod("/data/library", os.ModeDir|0o777))

	f := &PermissionFixer{fs: fs}
	f.setIssues([]pathIssue{
		{Path: "/game/settings.json", Type: KindFile, Fixable: true},
		{Path: "/data/library", Type: KindDirectory, Fixable: true},
		{Path: "/elsewhere", Type: KindFile, Fixable: false},
		{Path: "/odd", Type: "socket", Fixable: true},
	})

	results := f.Fix()
	require.Len(t, results, 3)

	assert.True(t, results[0].Fixed)
	assert.Equal(t, "chmod 0644", results[0].Description)
	assert.True(t, results[1].Fixed)
	assert.Equal(t, "chmod 0755", results[1].Description)
	assert.False(t, results[2].Fixed)
	assert.Error(t, results[2].Error)

	info, err := fs.Stat("/game/settings.json")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	info, err = fs.Stat("/data/library")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestPermissionFixer_FixMissingPath(t *testing.T) {
	f := &PermissionFixer{fs: afero.NewMemMapFs()}
	f.setIssues([]pathIssue{{Path: "/gone", Type: KindFile, Fixable: true}})

	results := f.Fix()
	require.Len(t, results, 1)
	assert.False(t, results[0].Fixed)
	assert.Error(t, results[0].Error)
}

func TestPathPermissionCheck_RunThenFix(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/game/settings.json", []byte("{}"), 0o666))
	require.NoError(t, fs.Chmod("/game/settings.json", 0o666))

	c := newPermissionCheck(fs, PathTarget{Role: "settings", Path: "/game/settings.json", Kind: KindFile})
	r := NewRunner()
	r.AddCheck(c)

	assert.Equal(t, 1, r.Run().Summary.Warnings)
	fixes := r.Fix()
	require.Len(t, fixes, 1)
	assert.True(t, fixes[0].Fixed)
	assert.Equal(t, 1, r.Run().Summary.Passed)
}

func TestPermissionFixer_KeepsPrivateOwnerBits(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/game/settings.json", []byte("{}"), 0o622))
	require.NoError(t, fs.Chmod("/game/settings.json", 0o622))

	f := &PermissionFixer{fs: fs}
	f.setIssues([]pathIssue{{Path: "/game/settings.json", Type: KindFile, Fixable: true}})

	results := f.Fix()
	require.Len(t, results, 1)
	assert.True(t, results[0].Fixed)
	assert.Equal(t, "chmod 0600", results[0].Description)

	info, err := fs.Stat("/game/settings.json")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
