package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteTable(t *testing.T) {
	assert.Equal(t, `"movies_simple"`, quoteTable("movies_simple"))
	assert.Equal(t, `"public"."movies_test"`, quoteTable("public.movies_test"))
	assert.Equal(t, `"odd""name"`, quoteTable(`odd"name`))
}

func TestInsertQuery(t *testing.T) {
	q := insertQuery("movies_simple", []string{"imdb_id", "title", "year", "genres"})
	assert.Equal(t,
		`INSERT INTO "movies_simple" (imdb_id, title, year, genres) VALUES ($1, $2, $3, $4) RETURNING `+itemColumns, q)
}

func TestUpdateQuery(t *testing.T) {
	q := updateQuery("movies_simple", []string{"imdb_id", "title", "year"})
	assert.Equal(t,
		`UPDATE "movies_simple" SET imdb_id = $1, title = $2, year = $3 WHERE id = $4 RETURNING `+itemColumns, q)
}

func TestItemApplyKeepsUnsupplied(t *testing.T) {
	poster := "old.jpg"
	item := &Item{ID: "x", IMDbID: "tt1234567", Title: "Old", Year: 1990, Poster: &poster, Genres: []string{"a"}}

	item.apply(&ItemInput{IMDbID: "tt7654321", Title: "New", Year: 2001})

	assert.Equal(t, "New", item.Title)
	assert.Equal(t, int32(2001), item.Year)
	assert.Equal(t, "old.jpg", *item.Poster)
	assert.Equal(t, []string{"a"}, item.Genres)
}
