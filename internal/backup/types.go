package backup

import (
	"io/fs"
	"time"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// ManifestVersion is written to every manifest. Get rejects other versions,
// so List skips them.
const ManifestVersion = 1

// DefaultRetentionCount is how many backups BeforeWrite keeps when no
// retention is configured.
const DefaultRetentionCount = 10

const manifestFile = "manifest.json"

var (
	// ErrNoBackupsFound indicates no backup exists, or none with the requested ID.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a stored copy no longer matches the
	// SHA-256 recorded in its manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// BackupManifest is stored as manifest.json in each backup directory.
type BackupManifest struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`

	// Reason names the operation that triggered the backup, such as
	// "alias import" or "manual".
	Reason string `json:"reason"`

	Files       []BackupFile `json:"files"`
	ToolVersion string       `json:"tnalias_version"`

	// ID is the directory name (20260123T100712, or 20260123T100712-02 when
	// two backups land in the same second). It is not stored in the JSON.
	ID string `json:"-"`
}

// Size returns the combined size of the stored copies.
func (m *BackupManifest) Size() int64 {
	var n int64
	for _, f := range m.Files {
		n += f.Size
	}
	return n
}

// Covers reports whether the backup holds a copy of path.
func (m *BackupManifest) Covers(path string) bool {
	for _, f := range m.Files {
		if f.OriginalPath == path {
			return true
		}
	}
	return false
}

// BackupFile describes one stored copy.
type BackupFile struct {
	OriginalPath string `json:"original_path"`

	// RelPath is the copy's location inside the backup directory.
	RelPath string `json:"rel_path"`

	SHA256Hash string      `json:"sha256_hash"`
	Size       int64       `json:"size"`
	Mode       fs.FileMode `json:"mode"`
}
