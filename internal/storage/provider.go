// Package storage defines the reference data store: one directory per
// ingredient category, one file per ingredient.
package storage

import "github.com/starford/wort/internal/models"

// Pattern matches the reference data files a category directory may hold.
const Pattern = "*.{json,yaml,yml,msgpack}"

// Provider is the interface for reference data file access.
type Provider interface {
	// List returns metadata for every data file directly under category.
	// An empty category lists all categories.
	List(category string) ([]models.ItemMeta, error)
	// ListKeys returns the category, key and path of every data file
	// under category without opening any of them. Checksum and
	// UpdatedAt are left zero.
	ListKeys(category string) ([]models.ItemMeta, error)
	// Read returns the raw bytes of the file at path (relative to root).
	// A missing file yields an error wrapping apperr.ErrNotFound.
	Read(path string) ([]byte, error)
}
