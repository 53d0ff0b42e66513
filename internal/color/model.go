package color

import (
	"strings"

	"github.com/starford/wort/internal/apperr"
)

// Model selects one of the SRM equations.
type Model int

const (
	Morey Model = iota
	MoreyHybrid
	Mosher
	Daniels
	DanielsPower
	NoonanPower
)

var modelNames = map[Model]string{
	Morey:        "morey",
	MoreyHybrid:  "morey_hybrid",
	Mosher:       "mosher",
	Daniels:      "daniels",
	DanielsPower: "daniels_power",
	NoonanPower:  "noonan_power",
}

func (m Model) String() string {
	if name, ok := modelNames[m]; ok {
		return name
	}
	return "unknown"
}

// SRM evaluates the model for mcu.
func (m Model) SRM(mcu float64) (float64, error) {
	switch m {
	case Morey:
		return CalculateSRMMorey(mcu)
	case MoreyHybrid:
		return CalculateSRMMoreyHybrid(mcu)
	case Mosher:
		return CalculateSRMMosher(mcu)
	case Daniels:
		return CalculateSRMDaniels(mcu)
	case DanielsPower:
		return CalculateSRMDanielsPower(mcu)
	case NoonanPower:
		return CalculateSRMNoonanPower(mcu)
	}
	return 0, apperr.Validationf("unknown color model %d", int(m))
}

// ParseModel maps a model name to a Model. The empty string selects Morey.
func ParseModel(name string) (Model, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Morey, nil
	}
	for m, n := range modelNames {
		if n == name {
			return m, nil
		}
	}
	return 0, apperr.Validationf("unknown color model %q", name)
}
