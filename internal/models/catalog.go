package models

import "time"

// ItemMeta describes one reference data file under a category directory.
type ItemMeta struct {
	Category  string    `json:"category"`
	Key       string    `json:"key"`
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ingredient is a reference record as stored in the catalog index.
type Ingredient struct {
	Category  string         `json:"category"`
	Key       string         `json:"key"`
	Name      string         `json:"name"`
	Path      string         `json:"path"`
	Checksum  string         `json:"checksum"`
	Fields    map[string]any `json:"fields,omitempty"`
	IndexedAt time.Time      `json:"indexed_at"`
}
