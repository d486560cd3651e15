package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportDir writes rendered exports into a single flat directory.
type ExportDir struct {
	baseDir string
}

// NewExportDir ensures baseDir exists. An empty baseDir means "./exports".
func NewExportDir(baseDir string) (*ExportDir, error) {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = "./exports"
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve exports directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create exports directory: %w", err)
	}
	return &ExportDir{baseDir: abs}, nil
}

// Write stores data under name and returns the absolute path. Directory
// components in name are dropped.
func (d *ExportDir) Write(name string, data []byte) (string, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return "", fmt.Errorf("invalid export file name %q", name)
	}
	path := filepath.Join(d.baseDir, base)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalise export file: %w", err)
	}
	return path, nil
}

// Prune removes exports last modified before now-ttl and returns their names.
func (d *ExportDir) Prune(ttl time.Duration, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(d.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	cutoff := now.Add(-ttl)
	removed := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return removed, fmt.Errorf("stat export %s: %w", entry.Name(), err)
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(d.baseDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove export %s: %w", entry.Name(), err)
		}
		removed = append(removed, entry.Name())
	}
	return removed, nil
}

// Path returns the directory exports are written to.
func (d *ExportDir) Path() string {
	return d.baseDir
}
