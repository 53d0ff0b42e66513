package recipes

import (
	"fmt"
	"log/slog"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/models"
	"github.com/starford/wort/internal/parser"
	"github.com/starford/wort/internal/units"
)

// Option configures Assemble.
type Option func(*assembler)

type assembler struct {
	grains Lookup
	hops   Lookup
	yeast  Lookup
	logger *slog.Logger
}

// WithGrainLoader resolves grains through lookup instead of the main one.
func WithGrainLoader(lookup Lookup) Option {
	return func(a *assembler) { a.grains = lookup }
}

// WithHopLoader resolves hops through lookup instead of the main one.
func WithHopLoader(lookup Lookup) Option {
	return func(a *assembler) { a.hops = lookup }
}

// WithYeastLoader resolves the yeast through lookup instead of the main one.
func WithYeastLoader(lookup Lookup) Option {
	return func(a *assembler) { a.yeast = lookup }
}

// WithLogger sets the logger used for reference data misses.
func WithLogger(logger *slog.Logger) Option {
	return func(a *assembler) { a.logger = logger }
}

// Assemble validates doc, resolves every ingredient and returns the recipe.
// lookup may be nil when the document carries all values inline.
func Assemble(doc *parser.Document, lookup Lookup, opts ...Option) (*models.Recipe, error) {
	if doc == nil {
		return nil, apperr.Validationf("recipe: nil document")
	}
	if err := doc.Validate(); err != nil {
		return nil, apperr.Validationf("recipe: %v", err)
	}

	a := &assembler{grains: lookup, hops: lookup, yeast: lookup}
	for _, opt := range opts {
		opt(a)
	}

	var ropts models.RecipeOptions
	if d := doc.Data; d != nil {
		ropts.Units = d.Units
		if y := d.PercentBrewHouseYield; y != nil {
			if *y <= 0 {
				return nil, apperr.Validationf("recipe: percent_brew_house_yield must be positive")
			}
			ropts.PercentBrewHouseYield = *y
		}
	}
	if ropts.Units != "" {
		if err := units.ValidateUnits(ropts.Units); err != nil {
			return nil, err
		}
	}

	// Lines without their own units inherit the recipe's.
	resolve := func(lookup Lookup) *resolver {
		r := newResolver(lookup, a.logger)
		r.units = ropts.Units
		return r
	}

	grainResolver := resolve(a.grains)
	grains := make([]models.GrainAddition, 0, len(doc.Grains))
	for i, entry := range doc.Grains {
		ga, err := grainResolver.grain(entry)
		if err != nil {
			return nil, fmt.Errorf("grains[%d]: %w", i, err)
		}
		grains = append(grains, ga)
	}

	hopResolver := resolve(a.hops)
	hops := make([]models.HopAddition, 0, len(doc.Hops))
	for i, entry := range doc.Hops {
		ha, err := hopResolver.hop(entry)
		if err != nil {
			return nil, fmt.Errorf("hops[%d]: %w", i, err)
		}
		hops = append(hops, ha)
	}

	yeast, err := resolve(a.yeast).yeast(*doc.Yeast)
	if err != nil {
		return nil, fmt.Errorf("yeast: %w", err)
	}

	return models.NewRecipe(doc.Name, grains, hops, yeast, doc.StartVolume, doc.FinalVolume, ropts)
}
