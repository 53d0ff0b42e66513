// Package models defines the brewing value objects: ingredients, the
// additions that put them in a recipe, and the recipe itself.
//
// Values are built once, fully populated, and never mutated afterwards.
package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/bitterness"
	"github.com/starford/wort/internal/units"
)

// Grain types.
const (
	GrainCereal = "cereal"
	GrainDME    = "dme"
	GrainLME    = "lme"
)

// Hop types.
const (
	HopPellet = "pellet"
	HopWhole  = "whole"
	HopPlug   = "plug"
)

// DefaultPercentContribution is the share of the target bitterness an
// addition provides when the recipe does not say.
const DefaultPercentContribution = 100.0

// ValidateGrainType returns an ErrValidation error for unknown grain types.
func ValidateGrainType(grainType string) error {
	err := validation.Validate(grainType, validation.Required, validation.In(GrainCereal, GrainDME, GrainLME))
	if err == nil {
		return nil
	}
	return apperr.Validationf("Unknown grain type '%s', must use %s, %s or %s",
		grainType, GrainCereal, GrainDME, GrainLME)
}

// ValidateHopType returns an ErrValidation error for unknown hop types.
func ValidateHopType(hopType string) error {
	err := validation.Validate(hopType, validation.Required, validation.In(HopPellet, HopWhole, HopPlug))
	if err == nil {
		return nil
	}
	return apperr.Validationf("Unknown hop type '%s', must use %s, %s or %s",
		hopType, HopPellet, HopWhole, HopPlug)
}

// Grain is a fermentable. Color is in degrees Lovibond, PPG in gravity
// points per pound per gallon.
type Grain struct {
	Name  string  `json:"name"`
	Color float64 `json:"color"`
	PPG   float64 `json:"ppg"`
}

// Hop is a hop variety. PercentAlphaAcids is a percentage (14.0 is 14%).
type Hop struct {
	Name              string  `json:"name"`
	PercentAlphaAcids float64 `json:"percent_alpha_acids"`
}

// Yeast is a yeast strain. PercentAttenuation is a fraction (0.75).
type Yeast struct {
	Name               string  `json:"name"`
	PercentAttenuation float64 `json:"percent_attenuation"`
}

// GrainAddition is a weight of one grain in a recipe.
type GrainAddition struct {
	Grain     Grain   `json:"grain"`
	Weight    float64 `json:"weight"`
	GrainType string  `json:"grain_type"`
	Units     string  `json:"units"`
}

// NewGrainAddition validates the addition attributes. Empty grainType and
// unitSystem take the defaults (cereal, imperial).
func NewGrainAddition(grain Grain, weight float64, grainType, unitSystem string) (GrainAddition, error) {
	if grainType == "" {
		grainType = GrainCereal
	}
	if unitSystem == "" {
		unitSystem = units.Imperial
	}
	if err := ValidateGrainType(grainType); err != nil {
		return GrainAddition{}, err
	}
	if err := units.ValidateUnits(unitSystem); err != nil {
		return GrainAddition{}, err
	}
	if weight <= 0 {
		return GrainAddition{}, apperr.Validationf("grain %q: weight must be positive", grain.Name)
	}
	return GrainAddition{Grain: grain, Weight: weight, GrainType: grainType, Units: unitSystem}, nil
}

// WeightLbs returns the weight in pounds.
func (ga GrainAddition) WeightLbs() float64 {
	return units.WeightToImperial(ga.Weight, ga.Units)
}

// HopAddition is a weight of one hop boiled for BoilTime minutes.
type HopAddition struct {
	Hop                 Hop                 `json:"hop"`
	Weight              float64             `json:"weight"`
	BoilTime            float64             `json:"boil_time"`
	HopType             string              `json:"hop_type"`
	Units               string              `json:"units"`
	PercentContribution float64             `json:"percent_contribution"`
	Utilization         bitterness.Strategy `json:"utilization"`
}

// HopOptions carries the optional hop addition attributes. Zero values take
// the defaults (pellet, imperial, 100%, Tinseth).
type HopOptions struct {
	HopType             string
	Units               string
	PercentContribution float64
	Utilization         bitterness.Strategy
}

// NewHopAddition validates the addition attributes and applies defaults.
func NewHopAddition(hop Hop, weight, boilTime float64, opts HopOptions) (HopAddition, error) {
	if opts.HopType == "" {
		opts.HopType = HopPellet
	}
	if opts.Units == "" {
		opts.Units = units.Imperial
	}
	if opts.PercentContribution == 0 {
		opts.PercentContribution = DefaultPercentContribution
	}
	if err := ValidateHopType(opts.HopType); err != nil {
		return HopAddition{}, err
	}
	if err := units.ValidateUnits(opts.Units); err != nil {
		return HopAddition{}, err
	}
	if weight < 0 || boilTime < 0 {
		return HopAddition{}, apperr.Validationf("hop %q: weight and boil time must not be negative", hop.Name)
	}
	if opts.PercentContribution < 0 || opts.PercentContribution > 100 {
		return HopAddition{}, apperr.Validationf("hop %q: percent contribution must be within 0-100", hop.Name)
	}
	return HopAddition{
		Hop:                 hop,
		Weight:              weight,
		BoilTime:            boilTime,
		HopType:             opts.HopType,
		Units:               opts.Units,
		PercentContribution: opts.PercentContribution,
		Utilization:         opts.Utilization,
	}, nil
}

func (ha HopAddition) input(sg, finalVolume float64) bitterness.Input {
	return bitterness.Input{
		Weight:              ha.Weight,
		PercentAlphaAcids:   ha.Hop.PercentAlphaAcids,
		BoilTime:            ha.BoilTime,
		SG:                  sg,
		FinalVolume:         finalVolume,
		PercentContribution: ha.PercentContribution,
		Units:               ha.Units,
	}
}

// GetIBUs returns the bitterness this addition contributes to finalVolume
// (gal or L, matching the addition's units) of wort at gravity sg.
func (ha HopAddition) GetIBUs(sg, finalVolume float64) (float64, error) {
	return ha.Utilization.IBUs(ha.input(sg, finalVolume))
}

// GetHopsWeight returns the weight needed for this addition's share of
// targetIBU.
func (ha HopAddition) GetHopsWeight(sg, targetIBU, finalVolume float64) (float64, error) {
	return ha.Utilization.Weight(ha.input(sg, finalVolume), targetIBU)
}
