// Package bitterness computes hop utilization and IBU contributions.
//
// Two published utilization curves are offered as a closed set of
// strategies. Each strategy answers the forward question (IBUs from a hop
// weight) and its closed-form inverse (hop weight for a target IBU).
package bitterness

import (
	"math"
	"strings"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/units"
)

// Strategy selects a hop utilization curve.
type Strategy int

const (
	GlennTinseth Strategy = iota
	JackieRager
)

// Default is the strategy used when a hop addition does not choose one.
const Default = GlennTinseth

// Scale factors turning weight × utilization × alpha / volume into IBUs
// (mg of iso-alpha acids per liter).
const (
	ImperialFactor = 7489.0 // oz, gal
	MetricFactor   = 1000.0 // g, L
)

// Input describes one hop addition in the wort it is boiled in. Weight is
// oz or g, FinalVolume gal or L depending on Units. PercentAlphaAcids and
// PercentContribution are percentages (14.0 is 14%).
type Input struct {
	Weight              float64
	PercentAlphaAcids   float64
	BoilTime            float64
	SG                  float64
	FinalVolume         float64
	PercentContribution float64
	Units               string
}

func (s Strategy) String() string {
	switch s {
	case GlennTinseth:
		return "glenn_tinseth"
	case JackieRager:
		return "jackie_rager"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy maps a strategy name to a Strategy. The empty string
// selects Default.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Default, nil
	case "glenn_tinseth", "tinseth":
		return GlennTinseth, nil
	case "jackie_rager", "rager":
		return JackieRager, nil
	}
	return 0, apperr.Validationf("unknown utilization strategy %q", name)
}

// Utilization returns the fraction of alpha acids isomerized after boilTime
// minutes in wort of gravity sg.
func (s Strategy) Utilization(sg, boilTime float64) float64 {
	if s == JackieRager {
		return (18.11 + 13.86*math.Tanh((boilTime-31.32)/18.27)) / 100.0
	}
	bigness := 1.65 * math.Pow(0.000125, sg-1.0)
	boilTimeFactor := (1.0 - math.Exp(-0.04*boilTime)) / 4.15
	return bigness * boilTimeFactor
}

// gravityCorrection is the Rager adjustment for worts above 1.050. Tinseth
// already folds gravity into its utilization.
func (s Strategy) gravityCorrection(sg float64) float64 {
	if s == JackieRager && sg > 1.050 {
		return 1.0 + (sg-1.050)/0.2
	}
	return 1.0
}

// IBUs returns the bitterness contributed by in.Weight of hops.
func (s Strategy) IBUs(in Input) (float64, error) {
	factor, err := checkInput(in)
	if err != nil {
		return 0, err
	}
	utilization := s.Utilization(in.SG, in.BoilTime)
	return in.Weight * utilization * (in.PercentAlphaAcids / 100.0) * factor /
		(in.FinalVolume * s.gravityCorrection(in.SG)), nil
}

// Weight returns the hop weight that delivers this addition's share
// (in.PercentContribution) of targetIBU. in.Weight is ignored.
func (s Strategy) Weight(in Input, targetIBU float64) (float64, error) {
	factor, err := checkInput(in)
	if err != nil {
		return 0, err
	}
	utilization := s.Utilization(in.SG, in.BoilTime)
	if utilization <= 0 || in.PercentAlphaAcids <= 0 {
		return 0, apperr.Validationf("cannot solve hop weight with zero utilization or alpha acids")
	}
	share := targetIBU * (in.PercentContribution / 100.0)
	return share * in.FinalVolume * s.gravityCorrection(in.SG) /
		(utilization * (in.PercentAlphaAcids / 100.0) * factor), nil
}

func checkInput(in Input) (float64, error) {
	if err := units.ValidateUnits(in.Units); err != nil {
		return 0, err
	}
	if in.FinalVolume <= 0 {
		return 0, apperr.Validationf("final volume must be positive, got %v", in.FinalVolume)
	}
	if in.Units == units.SI {
		return MetricFactor, nil
	}
	return ImperialFactor, nil
}
