// Package testutil provides shared test helpers for reference data
// directories and catalog databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/wort/internal/index"
	"github.com/starford/wort/internal/storage"
)

// ReferenceFiles is a small reference data set covering every category and
// record format.
var ReferenceFiles = map[string]string{
	"grains/pale_malt_2_row_us.json":       `{"name": "Pale Malt 2-row US", "color": 1.8, "ppg": 37}`,
	"grains/caramel_crystal_malt_20l.yaml": "name: Caramel Crystal Malt 20L\ncolor: 20.0\nppg: 35\n",
	"hops/centennial.json":                 `{"name": "Centennial", "percent_alpha_acids": 14.0}`,
	"hops/cascade_us.yml":                  "name: Cascade US\npercent_alpha_acids: \"7.0%\"\n",
	"yeast/danstar.json":                   `{"name": "Danstar", "percent_attenuation": 0.75}`,
}

// PaleAle is a recipe document resolved entirely from ReferenceFiles.
const PaleAle = `
name: Pale Ale
start_volume: 7.0
final_volume: 5.0
grains:
  - name: Pale Malt 2-row US
    weight: 13.96
  - name: Caramel Crystal Malt 20L
    weight: 0.78
hops:
  - name: Centennial
    weight: 0.57
    boil_time: 60.0
  - name: Cascade US
    weight: 0.76
    boil_time: 5.0
yeast:
  name: Danstar
`

// TestDB creates a temporary SQLite catalog that is automatically cleaned up.
func TestDB(t *testing.T, opts ...index.Option) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "wort-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name(), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataDir creates a temporary reference data directory populated with
// ReferenceFiles.
func TestDataDir(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range ReferenceFiles {
		WriteFile(t, dir, rel, content)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteFile writes content to dir/rel, creating parent directories.
func WriteFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
