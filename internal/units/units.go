// Package units holds the unit-system tokens, conversion factors and
// temperature conversions shared by the brewing formulas.
package units

import "github.com/starford/wort/internal/apperr"

// Unit systems.
const (
	Imperial = "imperial"
	SI       = "metric"
)

// Conversion factors.
const (
	PoundPerKG  = 2.20462
	KGPerPound  = 1.0 / PoundPerKG
	GalPerLiter = 0.264172
	LiterPerGal = 1.0 / GalPerLiter
	OzPerGram   = 0.035274
	GramPerOz   = 1.0 / OzPerGram
)

// HydrometerAdjustmentTemp is the calibration temperature of a standard
// hydrometer in degrees Fahrenheit.
const HydrometerAdjustmentTemp = 59.0

// ValidateUnits returns an ErrUnits error unless units names a known unit
// system.
func ValidateUnits(units string) error {
	switch units {
	case Imperial, SI:
		return nil
	}
	return apperr.Unitsf("Unknown units '%s', must use %s or %s", units, Imperial, SI)
}

// FahrenheitToCelsius converts degrees Fahrenheit to degrees Celsius.
func FahrenheitToCelsius(temp float64) float64 {
	return (temp - 32.0) * 5.0 / 9.0
}

// CelsiusToFahrenheit converts degrees Celsius to degrees Fahrenheit.
func CelsiusToFahrenheit(temp float64) float64 {
	return temp*9.0/5.0 + 32.0
}

// WeightToImperial converts kilograms to pounds when units is metric and
// returns weight unchanged otherwise.
func WeightToImperial(weight float64, units string) float64 {
	if units == SI {
		return weight * PoundPerKG
	}
	return weight
}

// VolumeToImperial converts liters to gallons when units is metric.
func VolumeToImperial(volume float64, units string) float64 {
	if units == SI {
		return volume * GalPerLiter
	}
	return volume
}

// VolumeFromImperial converts gallons to liters when units is metric.
func VolumeFromImperial(volume float64, units string) float64 {
	if units == SI {
		return volume * LiterPerGal
	}
	return volume
}
