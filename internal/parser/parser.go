// Package parser decodes recipe documents. YAML and JSON are both
// accepted since JSON is a subset of YAML.
package parser

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/starford/wort/internal/apperr"
)

// Parse decodes raw recipe bytes and validates the document shape.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperr.Validationf("recipe: empty document")
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperr.Validationf("recipe: decode: %v", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, apperr.Validationf("recipe: %v", err)
	}
	return &doc, nil
}
