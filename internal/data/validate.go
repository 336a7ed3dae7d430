package data

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/myk4040okothogodo/movieitems/internal/apierr"
	"github.com/myk4040okothogodo/movieitems/internal/validator"
)

// AllowedFields is the whitelist of keys accepted in an item body.
var AllowedFields = []string{"imdb_id", "title", "year", "runtime", "rating", "poster", "genres"}

var requiredFields = []string{"imdb_id", "title", "year"}

const minYear = 1900

// RequireBody fails when no body, an empty object or null was sent.
func RequireBody(b *Body) error {
	if b.Len() == 0 {
		return apierr.New(http.StatusBadRequest, "Request body is required", apierr.CodeMissingBody, nil)
	}
	return nil
}

// ValidateID fails unless id is a version 4 UUID.
func ValidateID(id string) error {
	if !validator.Matches(id, validator.UUIDv4RX) {
		return apierr.New(http.StatusUnprocessableEntity, "'id', invalid format", apierr.CodeInvalidID,
			apierr.Details{"field": "id", "value": id})
	}
	return nil
}

// ValidateAllowedFields lists every key outside AllowedFields.
func ValidateAllowedFields(b *Body) error {
	extra := []string{}
	for _, key := range b.Keys() {
		if !validator.In(key, AllowedFields...) {
			extra = append(extra, key)
		}
	}

	if len(extra) > 0 {
		return apierr.New(http.StatusUnprocessableEntity, "Unexpected fields provided", apierr.CodeExtraFields,
			apierr.Details{"extra": extra})
	}
	return nil
}

// ValidateItemBody reports all missing required fields at once, then checks
// imdb_id format, year type and year range, stopping at the first failure.
// The types of the remaining fields are checked last.
func ValidateItemBody(b *Body) error {
	v := validator.New()
	for _, field := range requiredFields {
		raw, ok := b.Raw(field)
		v.Check(ok && !isFalsy(raw), field, "must be provided")
	}
	if !v.Valid() {
		return apierr.New(http.StatusUnprocessableEntity, "Missing required fields", apierr.CodeValidation,
			apierr.Details{"missing": v.Keys()})
	}

	raw, _ := b.Raw("imdb_id")
	var imdbID string
	if json.Unmarshal(raw, &imdbID) != nil || !validator.Matches(imdbID, validator.IMDbIDRX) {
		return fieldError(apierr.CodeInvalidIMDbID, "'imdb_id', invalid format", "imdb_id", raw)
	}

	raw, _ = b.Raw("year")
	var year float64
	if json.Unmarshal(raw, &year) != nil {
		return fieldError(apierr.CodeInvalidType, "'year' must be a number", "year", raw)
	}
	if year < minYear {
		return fieldError(apierr.CodeInvalidValue, fmt.Sprintf("'year' must be greater than %d", minYear), "year", raw)
	}

	_, err := NewItemInput(b)
	return err
}

// NewItemInput converts a body into an ItemInput, failing with INVALID_TYPE
// on the first field whose JSON type doesn't fit. A null optional field is
// treated as not supplied.
func NewItemInput(b *Body) (*ItemInput, error) {
	in := &ItemInput{}

	fields := []struct {
		name string
		kind string
		dst  interface{}
	}{
		{"imdb_id", "a string", &in.IMDbID},
		{"year", "an integer", &in.Year},
		{"title", "a string", &in.Title},
		{"runtime", "an integer", &in.Runtime},
		{"rating", "a number", &in.Rating},
		{"poster", "a string", &in.Poster},
		{"genres", "an array of strings", &in.Genres},
	}

	for _, f := range fields {
		raw, ok := b.Raw(f.name)
		if !ok || isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, fieldError(apierr.CodeInvalidType, fmt.Sprintf("'%s' must be %s", f.name, f.kind), f.name, raw)
		}
	}
	return in, nil
}

func fieldError(code apierr.Code, message, field string, raw json.RawMessage) error {
	return apierr.New(http.StatusUnprocessableEntity, message, code,
		apierr.Details{"field": field, "value": value(raw)})
}
