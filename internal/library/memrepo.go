package library

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memrepo keeps entries in process memory. Used when DATABASE_URL is unset.
type memrepo struct {
	mu      sync.RWMutex
	byID    map[string]*Entry
	byOwner map[string][]string // owner -> ids, insertion order
	now     func() time.Time
}

func NewMemoryRepository() Repository {
	return &memrepo{
		byID:    make(map[string]*Entry),
		byOwner: make(map[string][]string),
		now:     time.Now,
	}
}

func (m *memrepo) Save(ctx context.Context, e *Entry) (*Entry, error) {
	entry, err := prepare(e, m.now())
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.byID[entry.ID]; ok && prev.Owner != entry.Owner {
		return nil, ErrNotFound
	} else if !ok {
		m.byOwner[entry.Owner] = append(m.byOwner[entry.Owner], entry.ID)
	}
	stored := *entry
	m.byID[entry.ID] = &stored
	return entry, nil
}

func (m *memrepo) Get(ctx context.Context, owner, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.byID[id]
	if !ok || e.Owner != owner {
		return nil, ErrNotFound
	}
	out := *e
	return &out, nil
}

func (m *memrepo) List(ctx context.Context, owner string, limit int) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.byOwner[owner]
	items := make([]*Entry, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		e := *m.byID[ids[i]]
		items = append(items, &e)
	}
	// newest first; equal timestamps keep reverse insertion order
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if limit = clampLimit(limit); len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memrepo) Delete(ctx context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok || e.Owner != owner {
		return ErrNotFound
	}
	delete(m.byID, id)
	ids := m.byOwner[owner]
	for i, v := range ids {
		if v == id {
			m.byOwner[owner] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}
