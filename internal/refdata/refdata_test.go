package refdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/models"
	"github.com/starford/wort/internal/storage"
)

func writeFiles(t *testing.T, files map[string][]byte) *storage.FS {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, content, 0o644))
	}
	fs, err := storage.NewFS(dir)
	require.NoError(t, err)
	return fs
}

// countingStore records how often the loader touches storage.
type countingStore struct {
	storage.Provider
	lists, reads int
}

func (c *countingStore) List(category string) ([]models.ItemMeta, error) {
	c.lists++
	return c.Provider.List(category)
}

func (c *countingStore) ListKeys(category string) ([]models.ItemMeta, error) {
	c.lists++
	return c.Provider.ListKeys(category)
}

func (c *countingStore) Read(path string) ([]byte, error) {
	c.reads++
	return c.Provider.Read(path)
}

func TestFormatName(t *testing.T) {
	tests := map[string]string{
		"Pale Malt 2-row US":           "pale_malt_2_row_us",
		"centennial":                   "centennial",
		"  Cascade US ":                "cascade_us",
		"Hallertauer Mittelfrüh":       "hallertauer_mittelfrüh",
		"Hallertauer Mittelfru\u0308h": "hallertauer_mittelfrüh",
		"Caramel-Crystal Malt 20L":     "caramel_crystal_malt_20l",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatName(in), in)
	}
}

func TestDecode(t *testing.T) {
	packed, err := msgpack.Marshal(map[string]any{"name": "Cascade US", "percent_alpha_acids": 7.0})
	require.NoError(t, err)

	tests := []struct {
		file string
		data []byte
	}{
		{"cascade_us.json", []byte(`{"name": "Cascade US", "percent_alpha_acids": 7.0}`)},
		{"cascade_us.json", append([]byte{0xEF, 0xBB, 0xBF}, `{"name": "Cascade US", "percent_alpha_acids": "7.0"}`...)},
		{"cascade_us.yaml", []byte("name: Cascade US\npercent_alpha_acids: 7\n")},
		{"cascade_us.yml", []byte("name: Cascade US\npercent_alpha_acids: \"7.0 %\"\n")},
		{"cascade_us.msgpack", packed},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			rec, err := Decode(tt.file, tt.data)
			require.NoError(t, err)
			assert.Equal(t, "Cascade US", rec.Name())
			v, ok, err := rec.Float("percent_alpha_acids")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 7.0, v)
		})
	}

	_, err = Decode("x.txt", []byte("x"))
	assert.Error(t, err)
	_, err = Decode("x.json", []byte("{"))
	assert.Error(t, err)
}

func TestRecordFloat(t *testing.T) {
	rec := Record{"color": 1.8, "ppg": 37, "blank": nil, "bad": "dark"}

	v, ok, err := rec.Float("ppg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 37.0, v)

	_, ok, err = rec.Float("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = rec.Float("blank")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = rec.Float("bad")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLoaderGet(t *testing.T) {
	fs := writeFiles(t, map[string][]byte{
		"grains/pale_malt_2_row_us.json": []byte(`{"name": "Pale Malt 2-row US", "color": 1.8, "ppg": 37}`),
		"hops/centennial.yaml":           []byte("name: Centennial\npercent_alpha_acids: 14.0\n"),
	})
	store := &countingStore{Provider: fs}
	l := NewLoader(store, nil)

	rec, err := l.Get(Grains, "Pale Malt 2-row US")
	require.NoError(t, err)
	assert.Equal(t, "Pale Malt 2-row US", rec.Name())

	again, err := l.Get(Grains, "pale malt 2-row us")
	require.NoError(t, err)
	assert.Equal(t, rec, again)
	assert.Equal(t, 1, store.lists, "category listed once")
	assert.Equal(t, 1, store.reads, "record read once")

	_, err = l.Get(Hops, "Centennial")
	require.NoError(t, err)
	assert.Equal(t, 2, store.lists)
}

func TestLoaderListingReadsNothing(t *testing.T) {
	store := &countingStore{Provider: writeFiles(t, map[string][]byte{
		"grains/pale_malt.json": []byte(`{"name": "Pale Malt", "color": 2, "ppg": 37}`),
		"grains/munich.yaml":    []byte("name: Munich\ncolor: 9\nppg: 37\n"),
		"grains/vienna.json":    []byte(`{"name": "Vienna"}`),
	})}
	l := NewLoader(store, nil)

	keys, err := l.Keys(Grains)
	require.NoError(t, err)
	assert.Len(t, keys, 3)
	assert.Equal(t, 0, store.reads, "listing must not open files")

	_, err = l.Get(Grains, "Munich")
	require.NoError(t, err)
	assert.Equal(t, 1, store.reads)
}

func TestLoaderSkipsUnreadableNeighbour(t *testing.T) {
	fs := writeFiles(t, map[string][]byte{
		"grains/pale_malt.json": []byte(`{"name": "Pale Malt", "color": 2, "ppg": 37}`),
	})
	dangling := filepath.Join(fs.Root(), "grains", "dangling.json")
	if err := os.Symlink(filepath.Join(fs.Root(), "missing.json"), dangling); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	l := NewLoader(fs, nil)

	rec, err := l.Get(Grains, "Pale Malt")
	require.NoError(t, err)
	assert.Equal(t, "Pale Malt", rec.Name())

	_, err = l.Get(Grains, "dangling")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLoaderAccentedFileName(t *testing.T) {
	l := NewLoader(writeFiles(t, map[string][]byte{
		"hops/hallertauer_mittelfrüh.json": []byte(`{"name": "Hallertauer Mittelfrüh", "percent_alpha_acids": 4.0}`),
		// Decomposed ü, as some file systems store it.
		"hops/tettnanger_gru\u0308n.yaml":  []byte("percent_alpha_acids: 4.5\n"),
	}), nil)

	rec, err := l.Get(Hops, "Hallertauer Mittelfrüh")
	require.NoError(t, err)
	aa, ok, err := rec.Float("percent_alpha_acids")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 4.0, aa, 1e-9)

	_, err = l.Get(Hops, "Tettnanger Grün")
	require.NoError(t, err)
}

func TestLoaderMiss(t *testing.T) {
	l := NewLoader(writeFiles(t, nil), nil)
	_, err := l.Get(Grains, "Unobtainium")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestLoaderKeys(t *testing.T) {
	l := NewLoader(writeFiles(t, map[string][]byte{
		"yeast/danstar.json":   []byte(`{"name": "Danstar", "percent_attenuation": 0.75}`),
		"yeast/wlp001.yaml":    []byte("name: WLP001\n"),
		"yeast/notes.markdown": []byte("ignored"),
	}), nil)
	keys, err := l.Keys(Yeast)
	require.NoError(t, err)
	assert.Equal(t, []string{"danstar", "wlp001"}, keys)
}

func TestLoadersAreIsolated(t *testing.T) {
	a := NewLoader(writeFiles(t, map[string][]byte{"hops/saaz.json": []byte(`{"name":"Saaz"}`)}), nil)
	b := NewLoader(writeFiles(t, nil), nil)

	_, err := a.Get(Hops, "Saaz")
	require.NoError(t, err)
	_, err = b.Get(Hops, "Saaz")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestValidateCategory(t *testing.T) {
	for _, c := range Categories {
		assert.NoError(t, ValidateCategory(c))
	}
	assert.ErrorIs(t, ValidateCategory("cereals"), apperr.ErrValidation)
}
