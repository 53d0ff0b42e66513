// Package color estimates beer color from malt color units and converts
// between the SRM, EBC, Lovibond and A430 scales.
//
// Each SRM model is an empirical fit with its own validity window. Calling a
// model outside its window returns an apperr.ErrColor error naming the
// equation and the violated bound.
package color

import (
	"math"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/units"
)

// MaxSRM is the darkest color the power-law models are fitted for.
const MaxSRM = 50.0

// DefaultDilution is the dilution factor of an undiluted sample.
const DefaultDilution = 1.0

// SRMToEBC converts SRM color to EBC color.
func SRMToEBC(srm float64) float64 {
	return srm * 1.97
}

// EBCToSRM converts EBC color to SRM color.
func EBCToSRM(ebc float64) float64 {
	return ebc / 1.97
}

// LovibondToSRM converts degrees Lovibond to SRM.
func LovibondToSRM(lovibond float64) float64 {
	return 1.3546*lovibond - 0.76
}

// SRMToLovibond converts SRM to degrees Lovibond.
func SRMToLovibond(srm float64) float64 {
	return (srm + 0.76) / 1.3546
}

// SRMToA430 returns the absorbance at 430nm for an SRM color. dilution is 1
// for an undiluted sample, 2 for a 1:1 dilution and so on.
func SRMToA430(srm, dilution float64) float64 {
	return srm / (12.7 * dilution)
}

// EBCToA430 returns the absorbance at 430nm for an EBC color.
func EBCToA430(ebc, dilution float64) float64 {
	return SRMToA430(EBCToSRM(ebc), dilution)
}

// CalculateMCU returns malt color units for a grain weight (lbs or kg) of
// the given color (degrees Lovibond) in finalVolume (gal or liters).
func CalculateMCU(weight, lovibond, finalVolume float64, unitSystem string) (float64, error) {
	if err := units.ValidateUnits(unitSystem); err != nil {
		return 0, err
	}
	weight = units.WeightToImperial(weight, unitSystem)
	finalVolume = units.VolumeToImperial(finalVolume, unitSystem)
	return weight * lovibond / finalVolume, nil
}

// CalculateSRMMosher applies the Mosher equation, valid for MCU >= 7.
func CalculateSRMMosher(mcu float64) (float64, error) {
	if mcu < 7.0 {
		return 0, apperr.Colorf("Mosher equation does not work for MCU < 7.0")
	}
	return mosher(mcu), nil
}

func mosher(mcu float64) float64 { return mcu*0.3 + 4.7 }

// CalculateSRMDaniels applies the Daniels equation, valid for MCU >= 11.
func CalculateSRMDaniels(mcu float64) (float64, error) {
	if mcu < 11.0 {
		return 0, apperr.Colorf("Daniels equation does not work for MCU < 11.0")
	}
	return daniels(mcu), nil
}

func daniels(mcu float64) float64 { return mcu*0.2 + 8.4 }

// CalculateSRMDanielsPower applies Druey's power fit of the Daniels data.
func CalculateSRMDanielsPower(mcu float64) (float64, error) {
	srm := 1.73*math.Pow(mcu, 0.64) - 0.27
	if srm > MaxSRM {
		return 0, apperr.Colorf("Daniels Power equation does not work above SRM 50.0")
	}
	return srm, nil
}

// CalculateSRMNoonanPower applies Druey's power fit of the Noonan data.
func CalculateSRMNoonanPower(mcu float64) (float64, error) {
	srm := 15.03*math.Pow(mcu, 0.27) - 15.53
	if srm > MaxSRM {
		return 0, apperr.Colorf("Noonan Power equation does not work above SRM 50.0")
	}
	return srm, nil
}

// CalculateSRMMorey applies the Morey power equation.
func CalculateSRMMorey(mcu float64) (float64, error) {
	srm := 1.4922 * math.Pow(mcu, 0.6859)
	if srm > MaxSRM {
		return 0, apperr.Colorf("Morey equation does not work above SRM 50.0")
	}
	return srm, nil
}

// CalculateSRMMoreyHybrid follows Morey's piecewise approach: SRM equals
// MCU below 10, the Daniels line governs [10, 37) and the Mosher line
// governs [37, 50). The piecewise ranges replace the standalone models'
// lower bounds, so MCU 10 is valid here even though CalculateSRMDaniels
// rejects it.
func CalculateSRMMoreyHybrid(mcu float64) (float64, error) {
	switch {
	case mcu <= 0:
		return 0, apperr.Colorf("Morey Hybrid does not work for MCU <= 0.0")
	case mcu < 10:
		return mcu, nil
	case mcu < 37:
		return daniels(mcu), nil
	case mcu < 50:
		return mosher(mcu), nil
	}
	return 0, apperr.Colorf("Morey Hybrid does not work above MCU 50.0")
}

// CalculateSRM is the general purpose SRM estimate (Morey).
func CalculateSRM(mcu float64) (float64, error) {
	return CalculateSRMMorey(mcu)
}
