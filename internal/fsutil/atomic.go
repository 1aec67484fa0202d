package fsutil

import (
	"errors"
	"os"
	"syscall"
)

// WriteFileAtomic writes data to a sibling temporary file, syncs it and
// renames it over path. When path cannot be replaced by rename (bind-mounted
// files such as /etc/hosts inside containers) it falls back to rewriting
// path in place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmpFile := path + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Chmod(perm); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	err = os.Rename(tmpFile, path)
	if err == nil {
		return nil
	}
	os.Remove(tmpFile)
	if errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.EXDEV) {
		return os.WriteFile(path, data, perm)
	}
	return err
}

// FileMode returns the permission bits of path, or fallback when path does
// not exist yet.
func FileMode(path string, fallback os.FileMode) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return info.Mode().Perm()
}
