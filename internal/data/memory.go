package data

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryItemModel is an in-memory item store with the same semantics as
// ItemModel. Callers always receive copies.
type MemoryItemModel struct {
	mu    sync.RWMutex
	items map[string]*Item
}

func NewMemoryItemModel() *MemoryItemModel {
	return &MemoryItemModel{items: make(map[string]*Item)}
}

func (m *MemoryItemModel) GetAll(ctx context.Context) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]*Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item.clone())
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Title == items[j].Title {
			return items[i].ID < items[j].ID
		}
		return items[i].Title < items[j].Title
	})
	return items, nil
}

func (m *MemoryItemModel) Get(ctx context.Context, id string) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return item.clone(), nil
}

func (m *MemoryItemModel) Insert(ctx context.Context, input *ItemInput) (*Item, error) {
	item := &Item{ID: uuid.NewString()}
	item.apply(input)

	m.mu.Lock()
	m.items[item.ID] = item
	m.mu.Unlock()

	return item.clone(), nil
}

func (m *MemoryItemModel) Update(ctx context.Context, id string, input *ItemInput) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	item.apply(input)
	return item.clone(), nil
}

func (m *MemoryItemModel) Delete(ctx context.Context, id string) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	delete(m.items, id)
	return item, nil
}

func (item *Item) clone() *Item {
	c := *item
	c.Runtime, c.Rating, c.Poster, c.Genres = nil, nil, nil, nil
	c.apply(&ItemInput{
		IMDbID:  item.IMDbID,
		Title:   item.Title,
		Year:    item.Year,
		Runtime: item.Runtime,
		Rating:  item.Rating,
		Poster:  item.Poster,
		Genres:  genresPtr(item.Genres),
	})
	return &c
}

func genresPtr(genres []string) *[]string {
	if genres == nil {
		return nil
	}
	return &genres
}
