package data

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myk4040okothogodo/movieitems/internal/apierr"
)

func mustParse(t *testing.T, s string) *Body {
	t.Helper()
	b, err := ParseBody([]byte(s))
	require.NoError(t, err)
	return b
}

func asAPIError(t *testing.T, err error) *apierr.Error {
	t.Helper()
	require.Error(t, err)
	var e *apierr.Error
	require.True(t, errors.As(err, &e), "expected *apierr.Error, got %T", err)
	return e
}

func TestRequireBody(t *testing.T) {
	for _, body := range []string{"", "{}", "  "} {
		e := asAPIError(t, RequireBody(mustParse(t, body)))
		assert.Equal(t, http.StatusBadRequest, e.Status, body)
		assert.Equal(t, apierr.CodeMissingBody, e.Code, body)
	}
	assert.NoError(t, RequireBody(mustParse(t, `{"title":"X"}`)))
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("3f2504e0-4f89-41d3-9a0c-0305e82c3301"))
	assert.NoError(t, ValidateID("3F2504E0-4F89-41D3-9A0C-0305E82C3301"))

	e := asAPIError(t, ValidateID("not-a-uuid"))
	assert.Equal(t, http.StatusUnprocessableEntity, e.Status)
	assert.Equal(t, apierr.CodeInvalidID, e.Code)
	assert.Equal(t, apierr.Details{"field": "id", "value": "not-a-uuid"}, e.Details)
}

func TestValidateAllowedFields(t *testing.T) {
	assert.NoError(t, ValidateAllowedFields(mustParse(t,
		`{"imdb_id":"tt1234567","title":"X","year":1999,"runtime":90,"rating":7.1,"poster":"p.jpg","genres":["drama"]}`)))

	e := asAPIError(t, ValidateAllowedFields(mustParse(t, `{"zeta":1,"title":"X","id":"x","alpha":2}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, e.Status)
	assert.Equal(t, apierr.CodeExtraFields, e.Code)
	assert.Equal(t, []string{"zeta", "id", "alpha"}, e.Details["extra"])
}

func TestValidateItemBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		code    apierr.Code
		details apierr.Details
	}{
		{
			name:    "all required missing",
			body:    `{"runtime":90}`,
			code:    apierr.CodeValidation,
			details: apierr.Details{"missing": []string{"imdb_id", "title", "year"}},
		},
		{
			name:    "falsy values count as missing",
			body:    `{"imdb_id":"","title":null,"year":0}`,
			code:    apierr.CodeValidation,
			details: apierr.Details{"missing": []string{"imdb_id", "title", "year"}},
		},
		{
			name:    "only year missing",
			body:    `{"imdb_id":"tt1234567","title":"X","year":false}`,
			code:    apierr.CodeValidation,
			details: apierr.Details{"missing": []string{"year"}},
		},
		{
			name:    "missing listed even when imdb_id is bad",
			body:    `{"imdb_id":"bad","title":"X"}`,
			code:    apierr.CodeValidation,
			details: apierr.Details{"missing": []string{"year"}},
		},
		{
			name:    "bad imdb_id",
			body:    `{"imdb_id":"tt123","title":"X","year":"abc"}`,
			code:    apierr.CodeInvalidIMDbID,
			details: apierr.Details{"field": "imdb_id", "value": "tt123"},
		},
		{
			name:    "numeric imdb_id",
			body:    `{"imdb_id":1234567,"title":"X","year":1999}`,
			code:    apierr.CodeInvalidIMDbID,
			details: apierr.Details{"field": "imdb_id", "value": float64(1234567)},
		},
		{
			name:    "year as string",
			body:    `{"imdb_id":"tt1234567","title":"X","year":"1999"}`,
			code:    apierr.CodeInvalidType,
			details: apierr.Details{"field": "year", "value": "1999"},
		},
		{
			name:    "year before 1900",
			body:    `{"imdb_id":"tt1234567","title":"X","year":1899}`,
			code:    apierr.CodeInvalidValue,
			details: apierr.Details{"field": "year", "value": float64(1899)},
		},
		{
			name:    "fractional year",
			body:    `{"imdb_id":"tt1234567","title":"X","year":1999.5}`,
			code:    apierr.CodeInvalidType,
			details: apierr.Details{"field": "year", "value": 1999.5},
		},
		{
			name:    "title not a string",
			body:    `{"imdb_id":"tt1234567","title":42,"year":1999}`,
			code:    apierr.CodeInvalidType,
			details: apierr.Details{"field": "title", "value": float64(42)},
		},
		{
			name:    "genres not strings",
			body:    `{"imdb_id":"tt1234567","title":"X","year":1999,"genres":[1,2]}`,
			code:    apierr.CodeInvalidType,
			details: apierr.Details{"field": "genres", "value": []interface{}{float64(1), float64(2)}},
		},
		{
			name:    "runtime not an integer",
			body:    `{"imdb_id":"tt1234567","title":"X","year":1999,"runtime":"90 mins"}`,
			code:    apierr.CodeInvalidType,
			details: apierr.Details{"field": "runtime", "value": "90 mins"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := asAPIError(t, ValidateItemBody(mustParse(t, tt.body)))
			assert.Equal(t, http.StatusUnprocessableEntity, e.Status)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.details, e.Details)
		})
	}
}

func TestValidateItemBodyAccepts(t *testing.T) {
	for _, body := range []string{
		`{"imdb_id":"tt1234567","title":"X","year":1999}`,
		`{"imdb_id":"tt1234567","title":"X","year":1900,"runtime":null,"poster":null}`,
		`{"imdb_id":"tt12345678","title":"X","year":2024,"runtime":142,"rating":9.3,"poster":"https://img/p.jpg","genres":[]}`,
	} {
		assert.NoError(t, ValidateItemBody(mustParse(t, body)), body)
	}
}

func TestNewItemInput(t *testing.T) {
	in, err := NewItemInput(mustParse(t,
		`{"imdb_id":"tt0111161","title":"The Shawshank Redemption","year":1994,"runtime":142,"rating":9.3,"genres":["drama"],"poster":null}`))
	require.NoError(t, err)

	assert.Equal(t, "tt0111161", in.IMDbID)
	assert.Equal(t, "The Shawshank Redemption", in.Title)
	assert.Equal(t, int32(1994), in.Year)
	require.NotNil(t, in.Runtime)
	assert.Equal(t, int32(142), *in.Runtime)
	require.NotNil(t, in.Rating)
	assert.Equal(t, 9.3, *in.Rating)
	assert.Nil(t, in.Poster)
	require.NotNil(t, in.Genres)
	assert.Equal(t, []string{"drama"}, *in.Genres)

	cols, args := in.columns()
	assert.Equal(t, []string{"imdb_id", "title", "year", "runtime", "rating", "genres"}, cols)
	assert.Len(t, args, len(cols))
}
