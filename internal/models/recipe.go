package models

import (
	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/color"
	"github.com/starford/wort/internal/sugar"
	"github.com/starford/wort/internal/units"
)

// DefaultBrewHouseYield is the share of theoretical extract a typical
// homebrew mash recovers.
const DefaultBrewHouseYield = 0.70

// Recipe is a fully resolved recipe. StartVolume and FinalVolume are in
// gallons or liters according to Units.
type Recipe struct {
	Name                  string          `json:"name"`
	GrainAdditions        []GrainAddition `json:"grain_additions"`
	HopAdditions          []HopAddition   `json:"hop_additions"`
	Yeast                 Yeast           `json:"yeast"`
	StartVolume           float64         `json:"start_volume"`
	FinalVolume           float64         `json:"final_volume"`
	PercentBrewHouseYield float64         `json:"percent_brew_house_yield"`
	Units                 string          `json:"units"`
}

// RecipeOptions carries the recipe level overrides. Zero values take the
// defaults (70% yield, imperial).
type RecipeOptions struct {
	PercentBrewHouseYield float64
	Units                 string
}

// NewRecipe builds a Recipe. The addition slices are copied.
func NewRecipe(name string, grains []GrainAddition, hops []HopAddition, yeast Yeast,
	startVolume, finalVolume float64, opts RecipeOptions) (*Recipe, error) {
	if opts.PercentBrewHouseYield == 0 {
		opts.PercentBrewHouseYield = DefaultBrewHouseYield
	}
	if opts.Units == "" {
		opts.Units = units.Imperial
	}
	if err := units.ValidateUnits(opts.Units); err != nil {
		return nil, err
	}
	if opts.PercentBrewHouseYield < 0 || opts.PercentBrewHouseYield > 1 {
		return nil, apperr.Validationf("percent_brew_house_yield must be a fraction between 0 and 1, got %v",
			opts.PercentBrewHouseYield)
	}
	if startVolume <= 0 || finalVolume <= 0 {
		return nil, apperr.Validationf("start_volume and final_volume must be positive")
	}
	if finalVolume > startVolume {
		return nil, apperr.Validationf("final_volume %v exceeds start_volume %v", finalVolume, startVolume)
	}
	return &Recipe{
		Name:                  name,
		GrainAdditions:        append([]GrainAddition(nil), grains...),
		HopAdditions:          append([]HopAddition(nil), hops...),
		Yeast:                 yeast,
		StartVolume:           startVolume,
		FinalVolume:           finalVolume,
		PercentBrewHouseYield: opts.PercentBrewHouseYield,
		Units:                 opts.Units,
	}, nil
}

func (r *Recipe) startGallons() float64 { return units.VolumeToImperial(r.StartVolume, r.Units) }
func (r *Recipe) finalGallons() float64 { return units.VolumeToImperial(r.FinalVolume, r.Units) }

// TotalPoints returns the gravity points the grain bill delivers. Extracts
// dissolve completely and ignore the brewhouse yield.
func (r *Recipe) TotalPoints() float64 {
	var points float64
	for _, ga := range r.GrainAdditions {
		yield := r.PercentBrewHouseYield
		if ga.GrainType == GrainDME || ga.GrainType == GrainLME {
			yield = 1.0
		}
		points += ga.WeightLbs() * ga.Grain.PPG * yield
	}
	return points
}

// OriginalGravity is the gravity of the wort at final volume.
func (r *Recipe) OriginalGravity() float64 {
	return sugar.GUToSG(r.TotalPoints() / r.finalGallons())
}

// BoilGravity is the gravity of the wort at start volume.
func (r *Recipe) BoilGravity() float64 {
	return sugar.GUToSG(r.TotalPoints() / r.startGallons())
}

// FinalGravity applies the yeast attenuation to the original gravity.
func (r *Recipe) FinalGravity() float64 {
	return sugar.GUToSG(sugar.SGToGU(r.OriginalGravity()) * (1.0 - r.Yeast.PercentAttenuation))
}

// DegreesPlato is the original gravity in degrees Plato.
func (r *Recipe) DegreesPlato() float64 {
	return sugar.SGToPlato(r.OriginalGravity())
}

// ABV estimates percent alcohol by volume.
func (r *Recipe) ABV() float64 {
	return sugar.AlcoholByVolumeStandard(r.OriginalGravity(), r.FinalGravity())
}

// additionVolume expresses the final volume in the units of one addition.
func (r *Recipe) additionVolume(additionUnits string) float64 {
	return units.VolumeFromImperial(r.finalGallons(), additionUnits)
}

// HopIBUs returns the IBUs of every hop addition, in order, evaluated at the
// original gravity.
func (r *Recipe) HopIBUs() ([]float64, error) {
	sg := r.OriginalGravity()
	ibus := make([]float64, 0, len(r.HopAdditions))
	for _, ha := range r.HopAdditions {
		ibu, err := ha.GetIBUs(sg, r.additionVolume(ha.Units))
		if err != nil {
			return nil, err
		}
		ibus = append(ibus, ibu)
	}
	return ibus, nil
}

// TotalIBU sums HopIBUs.
func (r *Recipe) TotalIBU() (float64, error) {
	ibus, err := r.HopIBUs()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, ibu := range ibus {
		total += ibu
	}
	return total, nil
}

// BUToGU is the bitterness to gravity ratio.
func (r *Recipe) BUToGU() (float64, error) {
	ibu, err := r.TotalIBU()
	if err != nil {
		return 0, err
	}
	gu := sugar.SGToGU(r.OriginalGravity())
	if gu == 0 {
		return 0, apperr.Validationf("recipe %q has no gravity points", r.Name)
	}
	return ibu / gu, nil
}

// MCU sums malt color units over the grain bill.
func (r *Recipe) MCU() float64 {
	var mcu float64
	for _, ga := range r.GrainAdditions {
		mcu += ga.WeightLbs() * ga.Grain.Color / r.finalGallons()
	}
	return mcu
}

// SRM estimates color with the given model.
func (r *Recipe) SRM(model color.Model) (float64, error) {
	return model.SRM(r.MCU())
}

// EBC estimates color with the given model.
func (r *Recipe) EBC(model color.Model) (float64, error) {
	srm, err := r.SRM(model)
	if err != nil {
		return 0, err
	}
	return color.SRMToEBC(srm), nil
}

// HopSchedule returns, per hop addition, the weight (in that addition's
// units) that delivers its percent contribution of targetIBU.
func (r *Recipe) HopSchedule(targetIBU float64) ([]float64, error) {
	sg := r.OriginalGravity()
	weights := make([]float64, 0, len(r.HopAdditions))
	for _, ha := range r.HopAdditions {
		w, err := ha.GetHopsWeight(sg, targetIBU, r.additionVolume(ha.Units))
		if err != nil {
			return nil, err
		}
		weights = append(weights, w)
	}
	return weights, nil
}
