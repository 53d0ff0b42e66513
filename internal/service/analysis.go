package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/bitterness"
	"github.com/starford/wort/internal/color"
	"github.com/starford/wort/internal/models"
	"github.com/starford/wort/internal/parser"
	"github.com/starford/wort/internal/recipes"
	"github.com/starford/wort/internal/sugar"
)

// AnalyzeOptions tunes a recipe analysis.
type AnalyzeOptions struct {
	// ColorModel names the SRM estimate ("" selects morey).
	ColorModel string
	// TargetIBU, when set, adds a hop schedule hitting that bitterness.
	TargetIBU *float64
}

// GrainResult is one resolved grain addition.
type GrainResult struct {
	Name      string  `json:"name"`
	GrainType string  `json:"grain_type"`
	Weight    float64 `json:"weight"`
	Units     string  `json:"units"`
	Color     float64 `json:"color"`
	PPG       float64 `json:"ppg"`
}

// HopResult is one resolved hop addition and its bitterness.
type HopResult struct {
	Name                string              `json:"name"`
	HopType             string              `json:"hop_type"`
	Weight              float64             `json:"weight"`
	Units               string              `json:"units"`
	BoilTime            float64             `json:"boil_time"`
	PercentAlphaAcids   float64             `json:"percent_alpha_acids"`
	PercentContribution float64             `json:"percent_contribution"`
	Utilization         bitterness.Strategy `json:"utilization"`
	IBU                 float64             `json:"ibu"`
}

// HopWeight is the weight of one addition in a hop schedule.
type HopWeight struct {
	Name                string  `json:"name"`
	BoilTime            float64 `json:"boil_time"`
	PercentContribution float64 `json:"percent_contribution"`
	Weight              float64 `json:"weight"`
	Units               string  `json:"units"`
}

// Analysis is the computed profile of a recipe.
type Analysis struct {
	Name                  string  `json:"name"`
	Units                 string  `json:"units"`
	StartVolume           float64 `json:"start_volume"`
	FinalVolume           float64 `json:"final_volume"`
	PercentBrewHouseYield float64 `json:"percent_brew_house_yield"`

	OriginalGravity float64 `json:"original_gravity"`
	BoilGravity     float64 `json:"boil_gravity"`
	FinalGravity    float64 `json:"final_gravity"`
	DegreesPlato    float64 `json:"degrees_plato"`
	ABV             float64 `json:"abv"`
	ABW             float64 `json:"abw"`

	TotalIBU float64 `json:"total_ibu"`
	BUToGU   float64 `json:"bu_to_gu"`

	ColorModel string  `json:"color_model"`
	MCU        float64 `json:"mcu"`
	SRM        float64 `json:"srm"`
	EBC        float64 `json:"ebc"`

	Grains []GrainResult `json:"grains"`
	Hops   []HopResult   `json:"hops"`
	Yeast  models.Yeast  `json:"yeast"`

	TargetIBU   *float64    `json:"target_ibu,omitempty"`
	HopSchedule []HopWeight `json:"hop_schedule,omitempty"`
}

// Recipe parses and assembles a recipe document.
func (s *Service) Recipe(_ context.Context, raw []byte) (*models.Recipe, error) {
	doc, err := parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	var lookup recipes.Lookup
	if s.loader != nil {
		lookup = meteredLookup{loader: s.loader, metrics: s.metrics}
	}
	return recipes.Assemble(doc, lookup, recipes.WithLogger(s.logger))
}

// Analyze parses a recipe document, resolves its ingredients and computes
// gravity, alcohol, bitterness and color.
func (s *Service) Analyze(ctx context.Context, raw []byte, opts AnalyzeOptions) (a *Analysis, err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveAnalysis(err, time.Since(start))
	}()

	model, err := color.ParseModel(opts.ColorModel)
	if err != nil {
		return nil, err
	}
	if opts.TargetIBU != nil && *opts.TargetIBU <= 0 {
		return nil, apperr.Validationf("target_ibu must be positive, got %v", *opts.TargetIBU)
	}

	r, err := s.Recipe(ctx, raw)
	if err != nil {
		return nil, err
	}
	a, err = analyze(r, model)
	if err != nil {
		return nil, err
	}
	if opts.TargetIBU != nil {
		a.TargetIBU = opts.TargetIBU
		if a.HopSchedule, err = schedule(r, *opts.TargetIBU); err != nil {
			return nil, err
		}
	}
	s.logger.Debug("service: analyzed recipe",
		slog.String("name", r.Name),
		slog.Float64("og", a.OriginalGravity),
		slog.Float64("ibu", a.TotalIBU))
	return a, nil
}

// HopSchedule returns the hop weights that reach targetIBU for the recipe
// in raw, splitting the bitterness by each addition's percent contribution.
func (s *Service) HopSchedule(ctx context.Context, raw []byte, targetIBU float64) ([]HopWeight, error) {
	if targetIBU <= 0 {
		return nil, apperr.Validationf("target_ibu must be positive, got %v", targetIBU)
	}
	r, err := s.Recipe(ctx, raw)
	if err != nil {
		return nil, err
	}
	return schedule(r, targetIBU)
}

func analyze(r *models.Recipe, model color.Model) (*Analysis, error) {
	ibus, err := r.HopIBUs()
	if err != nil {
		return nil, err
	}
	total, err := r.TotalIBU()
	if err != nil {
		return nil, err
	}
	ratio, err := r.BUToGU()
	if err != nil {
		return nil, err
	}
	srm, err := r.SRM(model)
	if err != nil {
		return nil, err
	}

	abv := r.ABV()
	a := &Analysis{
		Name:                  r.Name,
		Units:                 r.Units,
		StartVolume:           r.StartVolume,
		FinalVolume:           r.FinalVolume,
		PercentBrewHouseYield: r.PercentBrewHouseYield,
		OriginalGravity:       r.OriginalGravity(),
		BoilGravity:           r.BoilGravity(),
		FinalGravity:          r.FinalGravity(),
		DegreesPlato:          r.DegreesPlato(),
		ABV:                   abv,
		ABW:                   sugar.AlcoholByWeight(abv),
		TotalIBU:              total,
		BUToGU:                ratio,
		ColorModel:            model.String(),
		MCU:                   r.MCU(),
		SRM:                   srm,
		EBC:                   color.SRMToEBC(srm),
		Grains:                make([]GrainResult, 0, len(r.GrainAdditions)),
		Hops:                  make([]HopResult, 0, len(r.HopAdditions)),
		Yeast:                 r.Yeast,
	}
	for _, ga := range r.GrainAdditions {
		a.Grains = append(a.Grains, GrainResult{
			Name:      ga.Grain.Name,
			GrainType: ga.GrainType,
			Weight:    ga.Weight,
			Units:     ga.Units,
			Color:     ga.Grain.Color,
			PPG:       ga.Grain.PPG,
		})
	}
	for i, ha := range r.HopAdditions {
		a.Hops = append(a.Hops, HopResult{
			Name:                ha.Hop.Name,
			HopType:             ha.HopType,
			Weight:              ha.Weight,
			Units:               ha.Units,
			BoilTime:            ha.BoilTime,
			PercentAlphaAcids:   ha.Hop.PercentAlphaAcids,
			PercentContribution: ha.PercentContribution,
			Utilization:         ha.Utilization,
			IBU:                 ibus[i],
		})
	}
	return a, nil
}

func schedule(r *models.Recipe, targetIBU float64) ([]HopWeight, error) {
	weights, err := r.HopSchedule(targetIBU)
	if err != nil {
		return nil, err
	}
	out := make([]HopWeight, 0, len(weights))
	for i, w := range weights {
		ha := r.HopAdditions[i]
		out = append(out, HopWeight{
			Name:                ha.Hop.Name,
			BoilTime:            ha.BoilTime,
			PercentContribution: ha.PercentContribution,
			Weight:              w,
			Units:               ha.Units,
		})
	}
	return out, nil
}
