package data

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// ErrRecordNotFound is returned by the item stores when no row matches the
// requested id.
var ErrRecordNotFound = errors.New("record not found")

// Models groups the stores the handlers talk to.
type Models struct {
	Items interface {
		GetAll(ctx context.Context) ([]*Item, error)
		Get(ctx context.Context, id string) (*Item, error)
		Insert(ctx context.Context, input *ItemInput) (*Item, error)
		Update(ctx context.Context, id string, input *ItemInput) (*Item, error)
		Delete(ctx context.Context, id string) (*Item, error)
	}
}

// NewModels returns Models backed by the given PostgreSQL table.
func NewModels(db *sql.DB, table string) Models {
	return Models{
		Items: ItemModel{DB: db, Table: table},
	}
}

// NewMemoryModels returns Models backed by an in-process map. Nothing is
// persisted across restarts.
func NewMemoryModels() Models {
	return Models{
		Items: NewMemoryItemModel(),
	}
}
