package index

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/wort/internal/models"
	"github.com/starford/wort/internal/refdata"
	"github.com/starford/wort/internal/storage"
)

// Sync walks the data directory and brings the catalog up to date:
//   - new/changed files are decoded and upserted
//   - files removed from disk are deleted from the catalog
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.Delete(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile decodes a reference file and upserts it into the DB. Only files
// directly inside a category directory are catalogued.
func indexFile(db *DB, path string, data []byte) error {
	category, stem := storage.SplitPath(path)
	if category == "" || strings.Contains(category, "/") {
		return fmt.Errorf("index: %s is not inside a category directory", path)
	}
	key := refdata.FormatName(stem)
	rec, err := refdata.Decode(path, data)
	if err != nil {
		return err
	}
	name := rec.Name()
	if name == "" {
		name = key
	}
	return db.Upsert(models.Ingredient{
		Category: category,
		Key:      key,
		Name:     name,
		Path:     path,
		Checksum: storage.Checksum(data),
		Fields:   rec,
	})
}
