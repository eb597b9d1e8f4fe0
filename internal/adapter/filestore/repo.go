// Package filestore keeps the meal archive in a single file on local disk.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/foodtracker-backend/internal/archive"
	"github.com/heartmarshall/foodtracker-backend/internal/domain"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Repo reads and writes the archive at <dir>/<name>.
// Writes are atomic: a reader sees either the previous archive or the new one.
type Repo struct {
	dir  string
	path string
}

// New creates a file-backed archive repository.
func New(dir, name string) (*Repo, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("filestore: dir is required")
	}
	if strings.TrimSpace(name) == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("filestore: invalid archive name %q", name)
	}
	return &Repo{dir: dir, path: filepath.Join(dir, name)}, nil
}

// Path returns the archive location.
func (r *Repo) Path() string {
	return r.path
}

// Load reads and decodes the archive.
// Returns domain.ErrNotFound if no archive has been saved yet.
func (r *Repo) Load(ctx context.Context) ([]*domain.Meal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("archive %s: %w", r.path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read archive %s: %w", r.path, err)
	}

	meals, err := archive.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", r.path, err)
	}
	return meals, nil
}

// Save encodes the full meal sequence and atomically replaces the archive.
// Failures wrap domain.ErrPersistence.
func (r *Repo) Save(ctx context.Context, meals []*domain.Meal) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	data, err := archive.Encode(meals)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	if err := writeFileAtomic(r.path, data, filePerm); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrPersistence, r.path, err)
	}
	return nil
}

// Ping checks that the archive directory exists (creating it if needed)
// and is a directory.
func (r *Repo) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, dirPerm); err != nil {
		return fmt.Errorf("archive dir %s: %w", r.dir, err)
	}
	info, err := os.Stat(r.dir)
	if err != nil {
		return fmt.Errorf("archive dir %s: %w", r.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("archive dir %s: not a directory", r.dir)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory,
// syncs it, renames it over path and syncs the directory.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
