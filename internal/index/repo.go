package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/models"
)

const defaultLimit = 20

// Upsert inserts or replaces an ingredient. A zero IndexedAt is stamped
// with the catalog clock.
func (db *DB) Upsert(ing models.Ingredient) error {
	if ing.IndexedAt.IsZero() {
		ing.IndexedAt = db.clock.Now().UTC()
	}
	fields, err := json.Marshal(ing.Fields)
	if err != nil {
		return fmt.Errorf("index: encode fields: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO ingredients (path, category, key, name, checksum, fields, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			category   = excluded.category,
			key        = excluded.key,
			name       = excluded.name,
			checksum   = excluded.checksum,
			fields     = excluded.fields,
			indexed_at = excluded.indexed_at
	`, ing.Path, ing.Category, ing.Key, ing.Name, ing.Checksum, string(fields), ing.IndexedAt)
	if err != nil {
		return fmt.Errorf("index: upsert ingredient: %w", err)
	}
	return nil
}

// Delete removes an ingredient by path.
func (db *DB) Delete(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM ingredients WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete ingredient: %w", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a path, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM ingredients WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

const selectColumns = `SELECT path, category, key, name, checksum, fields, indexed_at FROM ingredients`

type scanner interface {
	Scan(dest ...any) error
}

func scanIngredient(s scanner) (models.Ingredient, error) {
	var ing models.Ingredient
	var fields string
	if err := s.Scan(&ing.Path, &ing.Category, &ing.Key, &ing.Name, &ing.Checksum, &fields, &ing.IndexedAt); err != nil {
		return ing, err
	}
	if err := json.Unmarshal([]byte(fields), &ing.Fields); err != nil {
		return ing, fmt.Errorf("index: decode fields of %s: %w", ing.Path, err)
	}
	return ing, nil
}

func collect(rows *sql.Rows) ([]models.Ingredient, error) {
	defer rows.Close()
	out := []models.Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// Get returns one ingredient by category and key.
func (db *DB) Get(category, key string) (*models.Ingredient, error) {
	row := db.conn.QueryRow(selectColumns+` WHERE category = ? AND key = ? ORDER BY path LIMIT 1`, category, key)
	ing, err := scanIngredient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get ingredient: %w", err)
	}
	return &ing, nil
}

// List returns a page of ingredients ordered by name plus the total count.
// An empty category lists every category.
func (db *DB) List(category string, limit, offset int) ([]models.Ingredient, int, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM ingredients WHERE (? = '' OR category = ?)`,
		category, category).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count ingredients: %w", err)
	}

	rows, err := db.conn.Query(selectColumns+`
		WHERE (? = '' OR category = ?)
		ORDER BY name COLLATE NOCASE, path
		LIMIT ? OFFSET ?
	`, category, category, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list ingredients: %w", err)
	}
	out, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Search matches query against ingredient names and keys, optionally
// restricted to one category. Name prefix matches rank first.
func (db *DB) Search(query, category string, limit int) ([]models.Ingredient, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	query = strings.TrimSpace(query)
	like := "%" + escapeLike(query) + "%"
	prefix := escapeLike(query) + "%"
	keyLike := "%" + escapeLike(strings.ReplaceAll(strings.ToLower(query), " ", "_")) + "%"

	rows, err := db.conn.Query(selectColumns+`
		WHERE (? = '' OR category = ?)
		  AND (name LIKE ? ESCAPE '\' OR key LIKE ? ESCAPE '\')
		ORDER BY CASE WHEN name LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, name COLLATE NOCASE
		LIMIT ?
	`, category, category, like, keyLike, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return collect(rows)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// AllChecksums returns path → checksum for every indexed ingredient.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM ingredients`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
