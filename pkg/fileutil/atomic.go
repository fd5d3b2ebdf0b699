// Package fileutil holds the crash-safe file helpers shared by the settings
// store, the library cache, the backup manager and the tool config.
//
// Everything takes an [afero.Fs]; tests pass a MemMapFs or a ReadOnlyFs.
package fileutil

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/tnalias/internal/errors"
)

// PrivatePerm is the mode used for files that may hold user data.
const PrivatePerm os.FileMode = 0o600

const tempPattern = ".tnalias-atomic-*.tmp"

// WriteFunc streams the new content of a file.
type WriteFunc func(w io.Writer) error

// WriteAtomic replaces path with whatever write produces. The content goes to
// a sibling temp file that is synced and renamed over path, so a reader sees
// either the old file or the complete new one. On any failure the temp file
// is removed and path is left untouched.
//
// The parent directory must already exist.
func WriteAtomic(fs afero.Fs, path string, perm os.FileMode, write WriteFunc) error {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), tempPattern)
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	name := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = fs.Remove(name)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := fs.Chmod(name, perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err := fs.Rename(name, path); err != nil {
		return errors.Wrapf(err, "replacing %s", filepath.Base(path))
	}

	committed = true
	return nil
}

// AtomicWriteFile writes data to path through WriteAtomic.
func AtomicWriteFile(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	return WriteAtomic(fs, path, perm, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return errors.Wrap(err, "writing temp file")
		}
		return nil
	})
}

// AtomicWriteJSON writes v as two-space indented JSON with a trailing
// newline. HTML characters are kept literal since alias commands routinely
// contain them.
func AtomicWriteJSON(fs afero.Fs, path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return AtomicWriteFile(fs, path, buf.Bytes(), PrivatePerm)
}

// AtomicWriteYAML writes v as YAML. yaml.v3 panics on some unsupported
// types; the panic is turned into an error before anything touches disk.
func AtomicWriteYAML(fs afero.Fs, path string, v any) error {
	data, err := marshalYAML(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(fs, path, data, PrivatePerm)
}

func marshalYAML(v any) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err = yaml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling YAML")
	}
	if n := len(data); n > 0 && data[n-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}
