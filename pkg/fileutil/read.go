package fileutil

import (
	"io"

	"github.com/spf13/afero"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// MaxFileSize is the default read cap. Library entries, manifests and the
// tool config are a few kilobytes each.
const MaxFileSize = 1 << 20

// ErrFileTooLarge is returned when a file is bigger than the read cap.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// ReadFileWithLimit reads path, refusing files over MaxFileSize.
func ReadFileWithLimit(fs afero.Fs, path string) ([]byte, error) {
	return ReadFileMax(fs, path, MaxFileSize)
}

// ReadFileMax reads path, refusing files over limit bytes. Open errors come
// back unwrapped so os.IsNotExist and os.IsPermission still work.
func ReadFileMax(fs afero.Fs, path string, limit int64) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if info, statErr := f.Stat(); statErr == nil && info.Size() > limit {
		return nil, errors.WithDetailf(ErrFileTooLarge, "%s is %d bytes, limit %d", path, info.Size(), limit)
	}
	data, err := ReadLimited(f, limit)
	if errors.Is(err, ErrFileTooLarge) {
		return nil, errors.WithDetailf(err, "%s is over %d bytes", path, limit)
	}
	return data, err
}

// ReadLimited reads r to EOF and fails with ErrFileTooLarge once more than
// limit bytes arrive. Stat sizes can lie (pipes, procfs), so the limit is
// enforced on the stream itself.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
