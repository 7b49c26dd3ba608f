package devserver

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/jrsteele09/go-church-admin/internal/errors"
)

// Item is one stored resource, kept as decoded JSON.
type Item map[string]any

// Collection is an in-memory table of items keyed by a numeric id field.
type Collection struct {
	idKey  string
	nextID int64
	items  map[int64]Item
	lock   sync.RWMutex
}

func newCollection(idKey string) *Collection {
	return &Collection{idKey: idKey, nextID: 1, items: make(map[int64]Item)}
}

// IDKey is the JSON field holding the item id, e.g. "event_id".
func (c *Collection) IDKey() string {
	return c.idKey
}

func (c *Collection) List() []Item {
	c.lock.RLock()
	defer c.lock.RUnlock()

	ids := make([]int64, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(c.items[id]))
	}
	return out
}

func (c *Collection) Get(id string) (Item, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c.lock.RLock()
	defer c.lock.RUnlock()

	item, ok := c.items[key]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return clone(item), nil
}

// Create stores item under a new id and returns the stored copy.
func (c *Collection) Create(item Item) Item {
	c.lock.Lock()
	defer c.lock.Unlock()

	id := c.nextID
	c.nextID++
	stored := clone(item)
	stored[c.idKey] = id
	c.items[id] = stored
	return clone(stored)
}

// Update merges fields into an existing item. The id field cannot change.
func (c *Collection) Update(id string, fields Item) (Item, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c.lock.Lock()
	defer c.lock.Unlock()

	existing, ok := c.items[key]
	if !ok {
		return nil, errors.ErrNotFound
	}
	for k, v := range fields {
		if k == c.idKey {
			continue
		}
		existing[k] = v
	}
	return clone(existing), nil
}

func (c *Collection) Delete(id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.items[key]; !ok {
		return errors.ErrNotFound
	}
	delete(c.items, key)
	return nil
}

// Seed stores v, which must marshal to a JSON object, under a new id.
func (c *Collection) Seed(v any) (Item, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("[devserver Seed] %w", err)
	}
	var item Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("[devserver Seed] %w", err)
	}
	return c.Create(item), nil
}

func parseID(id string) (int64, error) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrNotFound, "[devserver] invalid id %q", id)
	}
	return key, nil
}

func clone(item Item) Item {
	out := make(Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

// Store holds one collection per resource kind. Teams and ministry teams
// share a collection.
type Store struct {
	collections map[string]*Collection
}

func NewStore() *Store {
	teams := newCollection("team_id")
	return &Store{collections: map[string]*Collection{
		"ministry":       newCollection("ministry_id"),
		"teams":          teams,
		"ministry-teams": teams,
		"members":        newCollection("member_id"),
		"staff":          newCollection("staff_id"),
		"users":          newCollection("user_id"),
		"families":       newCollection("family_id"),
		"events":         newCollection("event_id"),
	}}
}

// Collection returns the collection for a kind name. Unknown names panic,
// as routes are built from the same registry.
func (s *Store) Collection(kind string) *Collection {
	c, ok := s.collections[kind]
	if !ok {
		panic(fmt.Sprintf("devserver: no collection for kind %q", kind))
	}
	return c
}
