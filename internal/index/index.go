package index

import "github.com/starford/wort/internal/models"

// Catalog defines the ingredient catalog operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Catalog interface {
	Upsert(ing models.Ingredient) error
	Delete(path string) error
	GetChecksum(path string) (string, error)
	Get(category, key string) (*models.Ingredient, error)
	List(category string, limit, offset int) ([]models.Ingredient, int, error)
	Search(query, category string, limit int) ([]models.Ingredient, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
