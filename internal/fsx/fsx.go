// Package fsx holds the file primitives the mirror relies on: existence checks,
// exclusive creation, bounded-memory stream copies and no-overwrite atomic writes.
package fsx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/arcanaland/gatherer/internal/errors"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755

	// CopyBufferSize bounds the memory used by CopyStream.
	CopyBufferSize = 64 * 1024
)

// Swappable so tests can force a failing rename.
var renameFunc = os.Rename

// PathTypeConflictError reports a target that exists with the wrong type,
// e.g. a directory where a file is expected.
type PathTypeConflictError struct {
	Path string
	Want string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("path type conflict at %q: want %s, got %s", e.Path, e.Want, e.Got)
}

// IsPathTypeConflict reports whether err is a *PathTypeConflictError.
func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// Stat returns the file info of path and whether it exists.
// A directory at path is a conflict, not a hit.
func Stat(path string) (os.FileInfo, bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if fi.IsDir() {
		return nil, false, &PathTypeConflictError{Path: path, Want: "file", Got: "dir"}
	}
	return fi, true, nil
}

// Exists reports whether a regular file exists at path.
func Exists(path string) (bool, error) {
	_, ok, err := Stat(path)
	return ok, err
}

// CreateExclusive creates path, failing if it already exists.
func CreateExclusive(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
}

// CopyStream copies src into dst chunk by chunk.
// Read failures come back as network errors, write failures as I/O errors.
func CopyStream(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, CopyBufferSize)
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, errors.IO("write", werr)
			}
			if w != n {
				return written, errors.IO("write", io.ErrShortWrite)
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, errors.Network("read stream", rerr)
		}
	}
}

// WriteFileAtomicNoOverwrite writes data to dir/name through a temp file and a rename.
// An existing target is left untouched and os.ErrExist is returned.
func WriteFileAtomicNoOverwrite(dir, name string, data []byte) error {
	dst := filepath.Join(filepath.Clean(dir), name)
	if fi, err := os.Lstat(dst); err == nil {
		if fi.IsDir() {
			return &PathTypeConflictError{Path: dst, Want: "file", Got: "dir"}
		}
		return os.ErrExist
	} else if !os.IsNotExist(err) {
		return err
	}
	return writeFileAtomic(dir, name, data)
}

func writeFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	// Temp file in the same directory so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := renameFunc(tmpName, filepath.Join(dir, name)); err != nil {
		return err
	}

	_ = syncDirBestEffort(dir)
	return nil
}

func syncDirBestEffort(dir string) error {
	// Directory fsync is not supported on Windows.
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
