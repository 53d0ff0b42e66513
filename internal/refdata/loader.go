package refdata

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/models"
	"github.com/starford/wort/internal/storage"
)

type entry struct {
	meta   models.ItemMeta
	record Record // nil until first read
}

// Loader resolves reference records by category and name. The first lookup
// in a category lists its directory without reading any file; each record
// is read and decoded on first use. Entries live as long as the Loader and are never evicted.
type Loader struct {
	store  storage.Provider
	logger *slog.Logger

	mu    sync.Mutex
	items map[string]map[string]*entry
}

// NewLoader creates a Loader over store. A nil logger discards output.
func NewLoader(store storage.Provider, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		store:  store,
		logger: logger,
		items:  make(map[string]map[string]*entry),
	}
}

// Get returns the record for an ingredient name. The name is normalized
// with FormatName. A miss returns an error wrapping apperr.ErrNotFound.
func (l *Loader) Get(category, name string) (Record, error) {
	return l.GetKey(category, FormatName(name))
}

// GetKey returns the record stored under key.
func (l *Loader) GetKey(category, key string) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	index, err := l.categoryLocked(category)
	if err != nil {
		return nil, err
	}
	e, ok := index[key]
	if !ok {
		return nil, fmt.Errorf("refdata: item from %s not found: %s: %w", category, key, apperr.ErrNotFound)
	}
	if e.record != nil {
		return e.record, nil
	}

	data, err := l.store.Read(e.meta.Path)
	if err != nil {
		return nil, fmt.Errorf("refdata: %w", err)
	}
	rec, err := Decode(e.meta.Path, data)
	if err != nil {
		return nil, err
	}
	e.record = rec
	l.logger.Debug("refdata: loaded", slog.String("category", category), slog.String("key", key))
	return rec, nil
}

// Keys lists the keys available in category, sorted.
func (l *Loader) Keys(category string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	index, err := l.categoryLocked(category)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (l *Loader) categoryLocked(category string) (map[string]*entry, error) {
	if index, ok := l.items[category]; ok {
		return index, nil
	}
	metas, err := l.store.ListKeys(category)
	if err != nil {
		return nil, fmt.Errorf("refdata: list %s: %w", category, err)
	}
	index := make(map[string]*entry, len(metas))
	for _, m := range metas {
		// File stems go through the same normalization as lookup names.
		key := FormatName(m.Key)
		if _, dup := index[key]; dup {
			l.logger.Warn("refdata: duplicate key", slog.String("category", category), slog.String("path", m.Path))
			continue
		}
		index[key] = &entry{meta: m}
	}
	l.items[category] = index
	l.logger.Debug("refdata: indexed category", slog.String("category", category), slog.Int("items", len(index)))
	return index, nil
}
