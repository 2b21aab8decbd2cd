// Package local provides the local filesystem storage backend.
package local

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/filedepot/filedepot/internal/logging"
	"github.com/filedepot/filedepot/internal/metrics"
)

// copyBufferSize bounds how much of a source file is held in memory
// while copying.
const copyBufferSize = 1 << 20

// Store performs filesystem I/O for the local backend. The zero value
// uses a 0o666 directory permission mask.
type Store struct {
	// DirPerm is the permission mask for newly created directories.
	// Execute bits are OR'd in at creation time.
	DirPerm os.FileMode
}

func (s Store) dirPerm() os.FileMode {
	if s.DirPerm == 0 {
		return 0o666
	}
	return s.DirPerm
}

// Write copies content to path in bounded chunks, creating parent
// directories as needed, and returns the on-disk size of the result.
// The content reader is reset to the start first.
func (s Store) Write(path string, content io.ReadSeeker) (int64, error) {
	start := time.Now()

	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, s.dirPerm()|0o111); err != nil {
			metrics.RecordOperation("local", "write", time.Since(start), false)
			return 0, fmt.Errorf("create dirs for %s: %w", path, err)
		}
	}

	if _, err := content.Seek(0, io.SeekStart); err != nil {
		metrics.RecordOperation("local", "write", time.Since(start), false)
		return 0, fmt.Errorf("seek content for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		metrics.RecordOperation("local", "write", time.Since(start), false)
		return 0, fmt.Errorf("open %s: %w", path, err)
	}

	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(f, content, buf); err != nil {
		f.Close()
		metrics.RecordOperation("local", "write", time.Since(start), false)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		metrics.RecordOperation("local", "write", time.Since(start), false)
		return 0, fmt.Errorf("close %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		metrics.RecordOperation("local", "write", time.Since(start), false)
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}

	metrics.RecordOperation("local", "write", time.Since(start), true)
	metrics.RecordUpload(info.Size())
	logging.Debug("local write", zap.String("path", path), zap.Int64("size", info.Size()))
	return info.Size(), nil
}

// Remove deletes the file at path. A missing file is not an error.
func (s Store) Remove(path string) error {
	start := time.Now()

	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		metrics.RecordOperation("local", "remove", time.Since(start), false)
		return fmt.Errorf("delete %s: %w", path, err)
	}

	metrics.RecordOperation("local", "remove", time.Since(start), true)
	logging.Debug("local remove", zap.String("path", path), zap.Bool("existed", err == nil))
	return nil
}

// ListPrefix returns all filesystem paths beginning with prefix, glob
// style. No matches yields an empty slice, not an error.
func (s Store) ListPrefix(prefix string) ([]string, error) {
	start := time.Now()

	matches, err := filepath.Glob(prefix + "*")
	if err != nil {
		metrics.RecordOperation("local", "list", time.Since(start), false)
		return nil, fmt.Errorf("list prefix %s: %w", prefix, err)
	}

	metrics.RecordOperation("local", "list", time.Since(start), true)
	return matches, nil
}
