package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wort/internal/service"
)

const maxRecipeBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// readRecipe reads a YAML or JSON recipe document from the request body.
func readRecipe(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRecipeBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return nil, false
	}
	if len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("recipe document is required"))
		return nil, false
	}
	return body, true
}

// queryFloat parses an optional float query parameter.
func queryFloat(r *http.Request, key string) (*float64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// AnalyzeRecipe handles POST /recipes/analyze.
//
//	@Summary		Analyze a recipe document
//	@Tags			recipes
//	@Accept			json,application/yaml
//	@Produce		json
//	@Param			color_model	query		string	false	"SRM model"	Enums(morey, morey_hybrid, mosher, daniels, daniels_power, noonan_power)
//	@Param			target_ibu	query		number	false	"Add a hop schedule for this bitterness"
//	@Success		200			{object}	Analysis
//	@Failure		400			{object}	errResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/recipes/analyze [post]
func (h *Handler) AnalyzeRecipe(w http.ResponseWriter, r *http.Request) {
	target, ok := queryFloat(r, "target_ibu")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("target_ibu must be a number"))
		return
	}
	body, ok := readRecipe(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Analyze(r.Context(), body, service.AnalyzeOptions{
		ColorModel: r.URL.Query().Get("color_model"),
		TargetIBU:  target,
	})
	if err != nil {
		writeError(w, "analyze recipe", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HopSchedule handles POST /recipes/hop-schedule.
//
//	@Summary		Compute hop weights for a target bitterness
//	@Tags			recipes
//	@Accept			json,application/yaml
//	@Produce		json
//	@Param			target_ibu	query		number	true	"Target IBU"
//	@Success		200			{object}	HopScheduleResponse
//	@Failure		400			{object}	errResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/recipes/hop-schedule [post]
func (h *Handler) HopSchedule(w http.ResponseWriter, r *http.Request) {
	target, ok := queryFloat(r, "target_ibu")
	if !ok || target == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'target_ibu' is required"))
		return
	}
	body, ok := readRecipe(w, r)
	if !ok {
		return
	}
	hops, err := h.svc.HopSchedule(r.Context(), body, *target)
	if err != nil {
		writeError(w, "hop schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, HopScheduleResponse{TargetIBU: *target, Hops: hops})
}

// SearchIngredients handles GET /ingredients.
//
//	@Summary		Search reference ingredients by name
//	@Tags			ingredients
//	@Produce		json
//	@Param			q			query		string	true	"Search query"
//	@Param			category	query		string	false	"Restrict to a category"	Enums(grains, hops, yeast)
//	@Param			limit		query		int		false	"Max results"
//	@Success		200			{object}	SearchResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/ingredients [get]
func (h *Handler) SearchIngredients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.SearchIngredients(r.Context(), q, r.URL.Query().Get("category"), limit)
	if err != nil {
		writeError(w, "search ingredients", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// ListIngredients handles GET /ingredients/{category}.
//
//	@Summary		List the ingredients of a category
//	@Tags			ingredients
//	@Produce		json
//	@Param			category	path		string	true	"Category"	Enums(grains, hops, yeast)
//	@Param			limit		query		int		false	"Page size"
//	@Param			offset		query		int		false	"Page offset"
//	@Success		200			{object}	IngredientListResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/ingredients/{category} [get]
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListIngredients(r.Context(), chi.URLParam(r, "category"), limit, offset)
	if err != nil {
		writeError(w, "list ingredients", err)
		return
	}
	writeJSON(w, http.StatusOK, IngredientListResponse{Ingredients: items, Total: total})
}

// GetIngredient handles GET /ingredients/{category}/{name}.
//
//	@Summary		Get one reference ingredient
//	@Tags			ingredients
//	@Produce		json
//	@Param			category	path		string	true	"Category"	Enums(grains, hops, yeast)
//	@Param			name		path		string	true	"Ingredient name or key"
//	@Success		200			{object}	Ingredient
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/ingredients/{category}/{name} [get]
func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	ing, err := h.svc.GetIngredient(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, "get ingredient", err)
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

// ConvertGravity handles GET /convert/gravity.
//
//	@Summary		Convert between gravity scales
//	@Tags			conversions
//	@Produce		json
//	@Param			value	query		number	true	"Reading"
//	@Param			from	query		string	true	"Source scale"	Enums(sg, plato, brix, gu)
//	@Param			to		query		string	true	"Target scale"	Enums(sg, plato, brix, gu)
//	@Success		200		{object}	ConvertResponse
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/convert/gravity [get]
func (h *Handler) ConvertGravity(w http.ResponseWriter, r *http.Request) {
	value, ok := queryFloat(r, "value")
	if !ok || value == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'value' must be a number"))
		return
	}
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	result, err := service.ConvertGravity(*value, from, to)
	if err != nil {
		writeError(w, "convert gravity", err)
		return
	}
	writeJSON(w, http.StatusOK, ConvertResponse{Value: *value, From: from, To: to, Result: result})
}
