package service

import (
	"strings"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/sugar"
)

// Gravity scales accepted by ConvertGravity.
const (
	ScaleSG    = "sg"
	ScalePlato = "plato"
	ScaleBrix  = "brix"
	ScaleGU    = "gu"
)

// ConvertGravity converts value between gravity scales. Brix and Plato
// convert directly; every other pair goes through specific gravity. Any
// conversion to Brix fails above sugar.MaxBrixSG.
func ConvertGravity(value float64, from, to string) (float64, error) {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if err := validateScale(from); err != nil {
		return 0, err
	}
	if err := validateScale(to); err != nil {
		return 0, err
	}

	switch {
	case from == to:
		return value, nil
	case from == ScaleBrix && to == ScalePlato:
		return sugar.BrixToPlato(value), nil
	case from == ScalePlato && to == ScaleBrix:
		// Same polynomial as sugar.PlatoToBrix, with the SGToBrix ceiling.
		return sugar.SGToBrix(sugar.PlatoToSG(value))
	}

	var sg float64
	switch from {
	case ScaleSG:
		sg = value
	case ScalePlato:
		sg = sugar.PlatoToSG(value)
	case ScaleBrix:
		sg = sugar.BrixToSG(value)
	case ScaleGU:
		sg = sugar.GUToSG(value)
	}

	switch to {
	case ScalePlato:
		return sugar.SGToPlato(sg), nil
	case ScaleBrix:
		return sugar.SGToBrix(sg)
	case ScaleGU:
		return sugar.SGToGU(sg), nil
	}
	return sg, nil
}

func validateScale(scale string) error {
	switch scale {
	case ScaleSG, ScalePlato, ScaleBrix, ScaleGU:
		return nil
	}
	return apperr.Validationf("unknown gravity scale %q, must use sg, plato, brix or gu", scale)
}
