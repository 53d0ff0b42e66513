package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wort/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *service.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Recipes.
	r.Post("/recipes/analyze", h.AnalyzeRecipe)
	r.Post("/recipes/hop-schedule", h.HopSchedule)

	// Ingredients.
	r.Get("/ingredients", h.SearchIngredients)
	r.Get("/ingredients/{category}", h.ListIngredients)
	r.Get("/ingredients/{category}/{name}", h.GetIngredient)

	// Conversions.
	r.Get("/convert/gravity", h.ConvertGravity)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
