package api

import (
	"github.com/starford/wort/internal/models"
	"github.com/starford/wort/internal/service"
)

// Analysis is the recipe analysis response (aliased from the service layer).
type Analysis = service.Analysis

// HopWeight is one entry of a hop schedule (aliased from the service layer).
type HopWeight = service.HopWeight

// Ingredient is a catalog record (aliased from the domain layer).
type Ingredient = models.Ingredient

// HopScheduleResponse wraps a computed hop schedule.
type HopScheduleResponse struct {
	TargetIBU float64     `json:"target_ibu" example:"40" validate:"required"`
	Hops      []HopWeight `json:"hops" validate:"required"`
}

// IngredientListResponse wraps paginated ingredient listings.
type IngredientListResponse struct {
	Ingredients []Ingredient `json:"ingredients" validate:"required"`
	Total       int          `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps ingredient search results.
type SearchResponse struct {
	Results []Ingredient `json:"results" validate:"required"`
}

// ConvertResponse is the result of a gravity scale conversion.
type ConvertResponse struct {
	Value  float64 `json:"value" example:"1.050" validate:"required"`
	From   string  `json:"from" example:"sg" validate:"required"`
	To     string  `json:"to" example:"plato" validate:"required"`
	Result float64 `json:"result" example:"12.39" validate:"required"`
}
