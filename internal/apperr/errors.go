// Package apperr defines the error kinds shared across wort packages.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrValidation marks malformed or missing recipe and ingredient fields.
	ErrValidation = errors.New("validation error")
	// ErrUnits marks an unrecognized unit-system token.
	ErrUnits = errors.New("validator error")
	// ErrColor marks a color formula used outside its validity range.
	ErrColor = errors.New("color error")
	// ErrSugar marks a gravity or temperature conversion outside its validity range.
	ErrSugar = errors.New("sugar error")
)

// Error carries a human readable message together with one of the kinds
// above. errors.Is(err, apperr.ErrColor) reports the kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Validationf returns an ErrValidation error.
func Validationf(format string, args ...any) error { return newf(ErrValidation, format, args...) }

// Unitsf returns an ErrUnits error.
func Unitsf(format string, args ...any) error { return newf(ErrUnits, format, args...) }

// Colorf returns an ErrColor error.
func Colorf(format string, args ...any) error { return newf(ErrColor, format, args...) }

// Sugarf returns an ErrSugar error.
func Sugarf(format string, args ...any) error { return newf(ErrSugar, format, args...) }

// IsInput reports whether err is a caller input error rather than an
// infrastructure failure.
func IsInput(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnits) ||
		errors.Is(err, ErrColor) ||
		errors.Is(err, ErrSugar)
}

// Label returns a short lowercase name for the kind of err, suitable for
// metric labels and API error codes.
func Label(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrUnits):
		return "units"
	case errors.Is(err, ErrColor):
		return "color"
	case errors.Is(err, ErrSugar):
		return "sugar"
	}
	return "internal"
}
