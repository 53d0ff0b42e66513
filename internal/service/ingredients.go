package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/models"
	"github.com/starford/wort/internal/refdata"
)

const defaultLimit = 20

// GetIngredient returns one reference record by category and name. The name
// is normalized the same way recipe lookups are.
func (s *Service) GetIngredient(_ context.Context, category, name string) (*models.Ingredient, error) {
	if err := refdata.ValidateCategory(category); err != nil {
		return nil, err
	}
	key := refdata.FormatName(name)
	if key == "" {
		return nil, apperr.Validationf("ingredient name is required")
	}
	if s.catalog != nil {
		ing, err := s.catalog.Get(category, key)
		s.metrics.ObserveLookup("catalog", err)
		if err == nil || !errors.Is(err, apperr.ErrNotFound) || s.loader == nil {
			return ing, err
		}
	}
	return s.loaderIngredient(category, key)
}

// ListIngredients returns a page of ingredients in category plus the total.
func (s *Service) ListIngredients(_ context.Context, category string, limit, offset int) ([]models.Ingredient, int, error) {
	if err := refdata.ValidateCategory(category); err != nil {
		return nil, 0, err
	}
	if s.catalog != nil {
		return s.catalog.List(category, limit, offset)
	}
	if s.loader == nil {
		return nil, 0, apperr.ErrNotFound
	}

	keys, err := s.loader.Keys(category)
	if err != nil {
		return nil, 0, err
	}
	total := len(keys)
	if limit <= 0 {
		limit = defaultLimit
	}
	offset = max(offset, 0)
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)

	out := make([]models.Ingredient, 0, end-offset)
	for _, key := range keys[offset:end] {
		ing, err := s.loaderIngredient(category, key)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *ing)
	}
	return out, total, nil
}

// SearchIngredients finds ingredients whose name or key contains query. An
// empty category searches every category.
func (s *Service) SearchIngredients(_ context.Context, query, category string, limit int) ([]models.Ingredient, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validationf("search query is required")
	}
	if category != "" {
		if err := refdata.ValidateCategory(category); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if s.catalog != nil {
		return s.catalog.Search(query, category, limit)
	}
	if s.loader == nil {
		return []models.Ingredient{}, nil
	}

	categories := refdata.Categories
	if category != "" {
		categories = []string{category}
	}
	needle := refdata.FormatName(query)
	out := []models.Ingredient{}
	for _, cat := range categories {
		keys, err := s.loader.Keys(cat)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for _, key := range keys {
			if !strings.Contains(key, needle) {
				continue
			}
			ing, err := s.loaderIngredient(cat, key)
			if err != nil {
				return nil, err
			}
			out = append(out, *ing)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi := strings.HasPrefix(out[i].Key, needle)
		pj := strings.HasPrefix(out[j].Key, needle)
		if pi != pj {
			return pi
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Service) loaderIngredient(category, key string) (*models.Ingredient, error) {
	if s.loader == nil {
		return nil, apperr.ErrNotFound
	}
	rec, err := s.loader.GetKey(category, key)
	s.metrics.ObserveLookup("loader", err)
	if err != nil {
		return nil, err
	}
	name := rec.Name()
	if name == "" {
		name = key
	}
	return &models.Ingredient{
		Category: category,
		Key:      key,
		Name:     name,
		Fields:   rec,
	}, nil
}
