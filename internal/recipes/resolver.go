// Package recipes resolves recipe documents against reference data and
// assembles them into models.Recipe values.
package recipes

import (
	"log/slog"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/bitterness"
	"github.com/starford/wort/internal/models"
	"github.com/starford/wort/internal/parser"
	"github.com/starford/wort/internal/refdata"
)

// Lookup fetches reference records by category and ingredient name.
// *refdata.Loader implements it.
type Lookup interface {
	Get(category, name string) (refdata.Record, error)
}

// ResolveGrain builds a grain addition from a recipe line, filling missing
// values from reference data.
func ResolveGrain(entry parser.GrainEntry, lookup Lookup) (models.GrainAddition, error) {
	return newResolver(lookup, nil).grain(entry)
}

// ResolveHop builds a hop addition from a recipe line.
func ResolveHop(entry parser.HopEntry, lookup Lookup) (models.HopAddition, error) {
	return newResolver(lookup, nil).hop(entry)
}

// ResolveYeast builds the yeast from a recipe entry.
func ResolveYeast(entry parser.YeastEntry, lookup Lookup) (models.Yeast, error) {
	return newResolver(lookup, nil).yeast(entry)
}

type resolver struct {
	lookup Lookup
	logger *slog.Logger
	units  string // default for additions without their own units
}

func newResolver(lookup Lookup, logger *slog.Logger) *resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &resolver{lookup: lookup, logger: logger}
}

// reference returns the reference record for name, or nil. Lookup failures
// are not fatal: the recipe may carry every value inline.
func (r *resolver) reference(category, name string) refdata.Record {
	if r.lookup == nil {
		return nil
	}
	rec, err := r.lookup.Get(category, name)
	if err != nil {
		r.logger.Debug("recipes: no reference data",
			slog.String("category", category),
			slog.String("name", name),
			slog.String("error", err.Error()))
		return nil
	}
	return rec
}

// field applies the override > reference > failure precedence.
func field(kind, name, key string, override *float64, rec refdata.Record) (float64, error) {
	if override != nil {
		return *override, nil
	}
	if rec != nil {
		v, ok, err := rec.Float(key)
		if err != nil {
			return 0, apperr.Validationf("%s %q: %v", kind, name, err)
		}
		if ok {
			return v, nil
		}
	}
	return 0, apperr.Validationf("%s %q: missing required field %q", kind, name, key)
}

func (r *resolver) additionUnits(units string) string {
	if units == "" {
		return r.units
	}
	return units
}

func displayName(rec refdata.Record, fallback string) string {
	if rec != nil {
		if n := rec.Name(); n != "" {
			return n
		}
	}
	return fallback
}

func (r *resolver) grain(entry parser.GrainEntry) (models.GrainAddition, error) {
	if entry.Name == "" {
		return models.GrainAddition{}, apperr.Validationf("grain: missing required field %q", "name")
	}
	rec := r.reference(refdata.Grains, entry.Name)

	var data parser.GrainData
	if entry.Data != nil {
		data = *entry.Data
	}
	color, err := field("grain", entry.Name, "color", data.Color, rec)
	if err != nil {
		return models.GrainAddition{}, err
	}
	ppg, err := field("grain", entry.Name, "ppg", data.PPG, rec)
	if err != nil {
		return models.GrainAddition{}, err
	}

	grain := models.Grain{Name: displayName(rec, entry.Name), Color: color, PPG: ppg}
	return models.NewGrainAddition(grain, entry.Weight, entry.GrainType, r.additionUnits(entry.Units))
}

func (r *resolver) hop(entry parser.HopEntry) (models.HopAddition, error) {
	if entry.Name == "" {
		return models.HopAddition{}, apperr.Validationf("hop: missing required field %q", "name")
	}
	if entry.BoilTime == nil {
		return models.HopAddition{}, apperr.Validationf("hop %q: missing required field %q", entry.Name, "boil_time")
	}
	rec := r.reference(refdata.Hops, entry.Name)

	var data parser.HopData
	if entry.Data != nil {
		data = *entry.Data
	}
	alpha, err := field("hop", entry.Name, "percent_alpha_acids", data.PercentAlphaAcids, rec)
	if err != nil {
		return models.HopAddition{}, err
	}

	strategy, err := bitterness.ParseStrategy(entry.Utilization)
	if err != nil {
		return models.HopAddition{}, err
	}
	opts := models.HopOptions{
		HopType:     entry.HopType,
		Units:       r.additionUnits(entry.Units),
		Utilization: strategy,
	}
	if pc := entry.PercentContribution; pc != nil {
		if *pc <= 0 {
			return models.HopAddition{}, apperr.Validationf("hop %q: percent_contribution must be within 0-100", entry.Name)
		}
		opts.PercentContribution = *pc
	}

	hop := models.Hop{Name: displayName(rec, entry.Name), PercentAlphaAcids: alpha}
	return models.NewHopAddition(hop, entry.Weight, *entry.BoilTime, opts)
}

func (r *resolver) yeast(entry parser.YeastEntry) (models.Yeast, error) {
	if entry.Name == "" {
		return models.Yeast{}, apperr.Validationf("yeast: missing required field %q", "name")
	}
	rec := r.reference(refdata.Yeast, entry.Name)

	var data parser.YeastData
	if entry.Data != nil {
		data = *entry.Data
	}
	attenuation, err := field("yeast", entry.Name, "percent_attenuation", data.PercentAttenuation, rec)
	if err != nil {
		return models.Yeast{}, err
	}
	if attenuation < 0 || attenuation > 1 {
		return models.Yeast{}, apperr.Validationf("yeast %q: percent_attenuation must be a fraction between 0 and 1, got %v",
			entry.Name, attenuation)
	}
	return models.Yeast{Name: displayName(rec, entry.Name), PercentAttenuation: attenuation}, nil
}
