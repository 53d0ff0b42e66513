// Package sugar converts between the gravity scales used in brewing
// (specific gravity, degrees Plato, degrees Brix and gravity units) and
// corrects hydrometer and refractometer readings.
package sugar

import (
	"math"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/units"
)

// MaxBrixSG is the highest specific gravity SGToBrix accepts (~40 degBx).
const MaxBrixSG = 1.17509

// WortCorrectionFactor relates a refractometer's Brix reading of wort to
// the Brix of a pure sucrose solution.
const WortCorrectionFactor = 1.04

// SGToGU converts specific gravity to gravity units.
func SGToGU(sg float64) float64 {
	return (sg - 1.0) * 1000.0
}

// GUToSG converts gravity units to specific gravity.
func GUToSG(gu float64) float64 {
	return 1.0 + gu/1000.0
}

// PlatoToSG converts degrees Plato to specific gravity.
func PlatoToSG(plato float64) float64 {
	return plato/(258.6-(plato/258.2)*227.1) + 1.0
}

// SGToPlato converts specific gravity to degrees Plato. It is not an exact
// inverse of PlatoToSG.
func SGToPlato(sg float64) float64 {
	return ((135.997*sg-630.272)*sg+1111.14)*sg - 616.868
}

// BrixToPlato converts degrees Brix to degrees Plato.
func BrixToPlato(brix float64) float64 {
	return SGToPlato(PlatoToSG(brix))
}

// PlatoToBrix converts degrees Plato to degrees Brix. Unlike SGToBrix it
// does not check MaxBrixSG.
func PlatoToBrix(plato float64) float64 {
	return brixPolynomial(PlatoToSG(plato))
}

// BrixToSG converts degrees Brix to specific gravity.
func BrixToSG(brix float64) float64 {
	return PlatoToSG(BrixToPlato(brix))
}

// SGToBrix converts specific gravity to degrees Brix. The polynomial is
// only valid up to MaxBrixSG.
func SGToBrix(sg float64) (float64, error) {
	if sg > MaxBrixSG {
		return 0, apperr.Sugarf("Above 40 degBx this function no longer works")
	}
	return brixPolynomial(sg), nil
}

func brixPolynomial(sg float64) float64 {
	return ((182.4601*sg-775.6821)*sg+1262.7794)*sg - 669.5622
}

// HydrometerAdjustment corrects a hydrometer reading taken at temp for the
// instrument's 59F calibration temperature. temp is in Fahrenheit for
// imperial units and Celsius for metric.
func HydrometerAdjustment(sg, temp float64, unitSystem string) (float64, error) {
	if err := units.ValidateUnits(unitSystem); err != nil {
		return 0, err
	}
	if unitSystem == units.SI {
		if temp < 0.0 || temp > 100.0 {
			return 0, apperr.Sugarf("Correction does not work outside temps 0 - 100C")
		}
		temp = units.CelsiusToFahrenheit(temp)
	} else if temp < 0.0 || temp > 212.0 {
		return 0, apperr.Sugarf("Correction does not work outside temps 0 - 212F")
	}

	if temp == units.HydrometerAdjustmentTemp {
		return sg, nil
	}

	correction := 1.313454 -
		0.132674*temp +
		2.057793e-3*math.Pow(temp, 2) -
		2.627634e-6*math.Pow(temp, 3)
	return sg + correction*0.001, nil
}

// RefractometerAdjustment returns the corrected final gravity from the
// original and apparent final gravities read on a refractometer.
func RefractometerAdjustment(og, fg float64) (float64, error) {
	ogBrix, err := SGToBrix(og)
	if err != nil {
		return 0, err
	}
	fgBrix, err := SGToBrix(fg)
	if err != nil {
		return 0, err
	}
	ogBrix /= WortCorrectionFactor
	fgBrix /= WortCorrectionFactor

	return 1.0 -
		0.0044993*ogBrix +
		0.011774*fgBrix +
		0.00027581*math.Pow(ogBrix, 2) -
		0.0012717*math.Pow(fgBrix, 2) -
		0.0000072800*math.Pow(ogBrix, 3) +
		0.000063293*math.Pow(fgBrix, 3), nil
}

// ApparentExtractToRealExtract computes real extract in degrees Plato from
// original and apparent extract (both degrees Plato).
func ApparentExtractToRealExtract(originalExtract, apparentExtract float64) float64 {
	attenuationCoefficient := 0.22 + 0.001*originalExtract
	return (attenuationCoefficient*originalExtract + apparentExtract) / (1 + attenuationCoefficient)
}
