package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// Item is a single movie record. ID is assigned by the datastore.
type Item struct {
	ID      string   `json:"id"`
	IMDbID  string   `json:"imdb_id"`
	Title   string   `json:"title"`
	Year    int32    `json:"year"`
	Runtime *int32   `json:"runtime,omitempty"` // minutes
	Rating  *float64 `json:"rating,omitempty"`
	Poster  *string  `json:"poster,omitempty"`
	Genres  []string `json:"genres,omitempty"`
}

// ItemInput is the writable part of an Item as sent by a client. Nil
// optional fields were not supplied and are left untouched on update.
type ItemInput struct {
	IMDbID  string
	Title   string
	Year    int32
	Runtime *int32
	Rating  *float64
	Poster  *string
	Genres  *[]string
}

// columns returns the supplied columns and their values, required ones
// first.
func (in *ItemInput) columns() ([]string, []interface{}) {
	cols := []string{"imdb_id", "title", "year"}
	args := []interface{}{in.IMDbID, in.Title, in.Year}

	if in.Runtime != nil {
		cols = append(cols, "runtime")
		args = append(args, *in.Runtime)
	}
	if in.Rating != nil {
		cols = append(cols, "rating")
		args = append(args, *in.Rating)
	}
	if in.Poster != nil {
		cols = append(cols, "poster")
		args = append(args, *in.Poster)
	}
	if in.Genres != nil {
		cols = append(cols, "genres")
		args = append(args, pq.Array(*in.Genres))
	}
	return cols, args
}

// apply copies the supplied fields of in onto item.
func (item *Item) apply(in *ItemInput) {
	item.IMDbID = in.IMDbID
	item.Title = in.Title
	item.Year = in.Year

	if in.Runtime != nil {
		v := *in.Runtime
		item.Runtime = &v
	}
	if in.Rating != nil {
		v := *in.Rating
		item.Rating = &v
	}
	if in.Poster != nil {
		v := *in.Poster
		item.Poster = &v
	}
	if in.Genres != nil {
		item.Genres = append([]string{}, *in.Genres...)
	}
}

const itemColumns = "id, imdb_id, title, year, runtime, rating, poster, genres"

// ItemModel stores items in a PostgreSQL table. Table is fixed at startup
// and may be schema qualified ("public.movies_simple").
type ItemModel struct {
	DB    *sql.DB
	Table string
}

func (m ItemModel) GetAll(ctx context.Context) ([]*Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY title`, itemColumns, quoteTable(m.Table))

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select items")
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan item")
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate items")
	}
	return items, nil
}

func (m ItemModel) Get(ctx context.Context, id string) (*Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, itemColumns, quoteTable(m.Table))

	item, err := scanItem(m.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "failed to select item")
	}
	return item, nil
}

func (m ItemModel) Insert(ctx context.Context, input *ItemInput) (*Item, error) {
	cols, args := input.columns()

	item, err := scanItem(m.DB.QueryRowContext(ctx, insertQuery(m.Table, cols), args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert item")
	}
	return item, nil
}

func (m ItemModel) Update(ctx context.Context, id string, input *ItemInput) (*Item, error) {
	cols, args := input.columns()
	args = append(args, id)

	item, err := scanItem(m.DB.QueryRowContext(ctx, updateQuery(m.Table, cols), args...))
	if err != nil {
		return nil, notFoundOr(err, "failed to update item")
	}
	return item, nil
}

func (m ItemModel) Delete(ctx context.Context, id string) (*Item, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING %s`, quoteTable(m.Table), itemColumns)

	item, err := scanItem(m.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "failed to delete item")
	}
	return item, nil
}

func insertQuery(table string, cols []string) string {
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		quoteTable(table), strings.Join(cols, ", "), strings.Join(placeholders, ", "), itemColumns)
}

// updateQuery expects the id as the argument following the column values.
func updateQuery(table string, cols []string) string {
	set := make([]string, len(cols))
	for i, col := range cols {
		set[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	return fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		quoteTable(table), strings.Join(set, ", "), len(cols)+1, itemColumns)
}

func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i := range parts {
		parts[i] = pq.QuoteIdentifier(parts[i])
	}
	return strings.Join(parts, ".")
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (*Item, error) {
	var (
		item    Item
		runtime sql.NullInt32
		rating  sql.NullFloat64
		poster  sql.NullString
		genres  []string
	)

	err := row.Scan(&item.ID, &item.IMDbID, &item.Title, &item.Year, &runtime, &rating, &poster, pq.Array(&genres))
	if err != nil {
		return nil, err
	}

	if runtime.Valid {
		item.Runtime = &runtime.Int32
	}
	if rating.Valid {
		item.Rating = &rating.Float64
	}
	if poster.Valid {
		item.Poster = &poster.String
	}
	item.Genres = genres
	return &item, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}
	return errors.Wrap(err, message)
}
