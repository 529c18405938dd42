// Package ioutils provides file system utilities for the imagedata tools.
//
// This package contains functions for:
//   - Backup copies that keep mode and modification time
//   - Atomic file replacement
//   - Hidden-file detection
//   - Directory creation
//
// All functions that accept a context.Context check it before starting,
// though file operations themselves are not interruptible.
package ioutils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile copies a file from source to destination.
//
// The copy is byte-for-byte. The destination gets the source's permission
// bits and modification time, and is synced to disk before CopyFile returns.
// An existing destination is truncated.
//
// Returns an error if:
//   - The context is already cancelled
//   - Source file cannot be opened
//   - Destination file cannot be created
//   - Copy, sync or metadata update fails
//
// Example:
//
//	err := CopyFile(ctx, "imagedata-shz.csv", "imagedata-shz_backup_before_json_update.csv")
func CopyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	destFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}
	if err := destFile.Sync(); err != nil {
		destFile.Close()
		return err
	}
	if err := destFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// BackupPath returns the sibling path used to back up path, with suffix
// inserted before the extension.
//
// Example:
//
//	BackupPath("data/imagedata-shz.csv", "_backup_before_json_update")
//	// Returns "data/imagedata-shz_backup_before_json_update.csv"
func BackupPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// WriteFileAtomic replaces path with whatever write produces.
//
// The content goes to a temporary file in the same directory which is
// renamed over path only after write succeeds and the data is synced, so
// readers never see a half-written file. If path exists its permission bits
// are kept, otherwise the file is created with mode 0644.
//
// Example:
//
//	err := WriteFileAtomic(ctx, "imagedata-shz.csv", func(w io.Writer) error {
//	    return dataset.Write(w, table)
//	})
func WriteFileAtomic(ctx context.Context, path string, write func(w io.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	committed = true
	return nil
}

// IsHidden reports whether a file name is hidden by the dot convention.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// IsDir reports whether path exists and is a directory, following symlinks.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Exists reports whether anything exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
