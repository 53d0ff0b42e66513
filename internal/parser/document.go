package parser

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Document is a recipe as written by the user. Key names follow the recipe
// file format; unknown keys are ignored.
type Document struct {
	Name        string       `yaml:"name" json:"name"`
	StartVolume float64      `yaml:"start_volume" json:"start_volume"`
	FinalVolume float64      `yaml:"final_volume" json:"final_volume"`
	Grains      []GrainEntry `yaml:"grains" json:"grains"`
	Hops        []HopEntry   `yaml:"hops" json:"hops"`
	Yeast       *YeastEntry  `yaml:"yeast" json:"yeast"`
	Data        *RecipeData  `yaml:"data,omitempty" json:"data,omitempty"`
}

// RecipeData holds the recipe level overrides.
type RecipeData struct {
	PercentBrewHouseYield *float64 `yaml:"percent_brew_house_yield,omitempty" json:"percent_brew_house_yield,omitempty"`
	Units                 string   `yaml:"units,omitempty" json:"units,omitempty"`
}

// GrainEntry is one line of the grain bill.
type GrainEntry struct {
	Name      string     `yaml:"name" json:"name"`
	Weight    float64    `yaml:"weight" json:"weight"`
	GrainType string     `yaml:"grain_type,omitempty" json:"grain_type,omitempty"`
	Units     string     `yaml:"units,omitempty" json:"units,omitempty"`
	Data      *GrainData `yaml:"data,omitempty" json:"data,omitempty"`
}

// GrainData overrides reference values for a grain.
type GrainData struct {
	Color *float64 `yaml:"color,omitempty" json:"color,omitempty"`
	PPG   *float64 `yaml:"ppg,omitempty" json:"ppg,omitempty"`
}

// HopEntry is one hop addition. BoilTime is a pointer because a zero
// minute (flameout) addition is valid while a missing one is not.
type HopEntry struct {
	Name                string   `yaml:"name" json:"name"`
	Weight              float64  `yaml:"weight" json:"weight"`
	BoilTime            *float64 `yaml:"boil_time" json:"boil_time"`
	HopType             string   `yaml:"hop_type,omitempty" json:"hop_type,omitempty"`
	Units               string   `yaml:"units,omitempty" json:"units,omitempty"`
	PercentContribution *float64 `yaml:"percent_contribution,omitempty" json:"percent_contribution,omitempty"`
	Utilization         string   `yaml:"utilization,omitempty" json:"utilization,omitempty"`
	Data                *HopData `yaml:"data,omitempty" json:"data,omitempty"`
}

// HopData overrides reference values for a hop.
type HopData struct {
	PercentAlphaAcids *float64 `yaml:"percent_alpha_acids,omitempty" json:"percent_alpha_acids,omitempty"`
}

// YeastEntry names the recipe's yeast.
type YeastEntry struct {
	Name string     `yaml:"name" json:"name"`
	Data *YeastData `yaml:"data,omitempty" json:"data,omitempty"`
}

// YeastData overrides reference values for a yeast.
type YeastData struct {
	PercentAttenuation *float64 `yaml:"percent_attenuation,omitempty" json:"percent_attenuation,omitempty"`
}

// Validate checks the document shape.
func (d Document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.StartVolume, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&d.FinalVolume, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&d.Grains, validation.Required),
		validation.Field(&d.Hops, validation.Required),
		validation.Field(&d.Yeast, validation.Required),
	)
}

// Validate checks a grain line.
func (g GrainEntry) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Name, validation.Required),
		validation.Field(&g.Weight, validation.Required, validation.Min(0.0).Exclusive()),
	)
}

// Validate checks a hop line.
func (h HopEntry) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Name, validation.Required),
		validation.Field(&h.Weight, validation.Min(0.0)),
		validation.Field(&h.BoilTime, validation.NotNil, validation.Min(0.0)),
	)
}

// Validate checks the yeast entry.
func (y YeastEntry) Validate() error {
	return validation.ValidateStruct(&y,
		validation.Field(&y.Name, validation.Required),
	)
}
