// Package refdata reads ingredient reference records from a storage
// provider and caches them per loader.
package refdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/cast"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/starford/wort/internal/apperr"
)

// Ingredient categories.
const (
	Grains = "grains"
	Hops   = "hops"
	Yeast  = "yeast"
)

// Categories lists the known categories in resolution order.
var Categories = []string{Grains, Hops, Yeast}

// ValidateCategory returns an ErrValidation error for unknown categories.
func ValidateCategory(category string) error {
	for _, c := range Categories {
		if c == category {
			return nil
		}
	}
	return apperr.Validationf("unknown ingredient category %q", category)
}

// Record is one decoded reference data file. Values keep the types the
// file format produced.
type Record map[string]any

// Name returns the display name, or "" when the record has none.
func (r Record) Name() string {
	return cast.ToString(r["name"])
}

// Float returns the numeric field key. ok is false when the field is absent
// or null. Numeric strings such as "14.0" or "14.0 %" are accepted.
func (r Record) Float(key string) (v float64, ok bool, err error) {
	raw, present := r[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	if s, isString := raw.(string); isString {
		raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	}
	v, err = cast.ToFloat64E(raw)
	if err != nil {
		return 0, false, apperr.Validationf("field %q: %v is not a number", key, r[key])
	}
	return v, true, nil
}

// Decode parses a reference file by its extension.
func Decode(name string, data []byte) (Record, error) {
	var rec Record
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".json":
		if err := json.Unmarshal(stripBOM(data), &rec); err != nil {
			return nil, fmt.Errorf("refdata: decode %s: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(stripBOM(data), &rec); err != nil {
			return nil, fmt.Errorf("refdata: decode %s: %w", name, err)
		}
	case ".msgpack":
		if err := msgpack.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("refdata: decode %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("refdata: unsupported format %q", ext)
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

// stripBOM drops a leading byte order mark and transcodes UTF-16 input to
// UTF-8. Input without a BOM passes through unchanged.
func stripBOM(data []byte) []byte {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), dec))
	if err != nil {
		return data
	}
	return out
}
