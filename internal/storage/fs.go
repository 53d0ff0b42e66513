package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/models"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the data directory
	fsys fs.FS
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs, fsys: os.DirFS(abs)}, nil
}

// Root returns the absolute data directory.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the data root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes data root: %s", rel)
	}
	return abs, nil
}

// List returns metadata for every data file in category. Files that
// disappear between the directory scan and the stat (or dangling links)
// are skipped.
func (f *FS) List(category string) ([]models.ItemMeta, error) {
	matches, err := f.glob(category)
	if err != nil {
		return nil, err
	}
	out := make([]models.ItemMeta, 0, len(matches))
	for _, rel := range matches {
		meta, err := f.stat(rel)
		if errors.Is(err, apperr.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("storage: list %s: %w", category, err)
		}
		out = append(out, meta)
	}
	return out, nil
}

// ListKeys returns the data files in category from the directory listing
// alone.
func (f *FS) ListKeys(category string) ([]models.ItemMeta, error) {
	matches, err := f.glob(category)
	if err != nil {
		return nil, err
	}
	out := make([]models.ItemMeta, 0, len(matches))
	for _, rel := range matches {
		cat, key := SplitPath(rel)
		out = append(out, models.ItemMeta{Category: cat, Key: key, Path: rel})
	}
	return out, nil
}

func (f *FS) glob(category string) ([]string, error) {
	dir := "*"
	if category != "" {
		if _, err := f.safePath(category); err != nil {
			return nil, err
		}
		dir = filepath.ToSlash(filepath.Clean(category))
	}
	matches, err := doublestar.Glob(f.fsys, path.Join(dir, Pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", category, err)
	}
	return matches, nil
}

// Stat returns metadata for the data file at path.
func (f *FS) Stat(rel string) (models.ItemMeta, error) {
	if _, err := f.safePath(rel); err != nil {
		return models.ItemMeta{}, err
	}
	return f.stat(filepath.ToSlash(filepath.Clean(rel)))
}

func (f *FS) stat(rel string) (models.ItemMeta, error) {
	info, err := fs.Stat(f.fsys, rel)
	if err != nil {
		return models.ItemMeta{}, notFound(rel, err)
	}
	data, err := fs.ReadFile(f.fsys, rel)
	if err != nil {
		return models.ItemMeta{}, notFound(rel, err)
	}
	category, key := SplitPath(rel)
	return models.ItemMeta{
		Category:  category,
		Key:       key,
		Path:      rel,
		Checksum:  Checksum(data),
		UpdatedAt: info.ModTime(),
	}, nil
}

// Read returns the raw bytes of a data file.
func (f *FS) Read(rel string) ([]byte, error) {
	abs, err := f.safePath(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, notFound(rel, err)
	}
	return data, nil
}

// IsDataFile reports whether the base name of p matches Pattern.
func IsDataFile(p string) bool {
	ok, _ := doublestar.Match(Pattern, path.Base(filepath.ToSlash(p)))
	return ok
}

// SplitPath splits "grains/pale_malt.json" into its category and key.
func SplitPath(rel string) (category, key string) {
	rel = filepath.ToSlash(rel)
	category = path.Dir(rel)
	if category == "." {
		category = ""
	}
	base := path.Base(rel)
	return category, strings.TrimSuffix(base, path.Ext(base))
}

// Checksum returns the hex-encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func notFound(rel string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: read %s: %w", rel, apperr.ErrNotFound)
	}
	return fmt.Errorf("storage: read %s: %w", rel, err)
}
