package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// MemoryDocumentStore implements store.DocumentStore in memory.
// Identifiers are UUID strings; anything else is rejected with store.ErrInvalidID.
type MemoryDocumentStore struct {
	// Now overrides the clock used for timestamps. Defaults to store.Now.
	Now func() time.Time
	// Err, when set, is returned by every operation instead of touching data.
	Err error

	mu          sync.Mutex
	seq         int
	collections map[string]map[string]*memoryEntry
}

type memoryEntry struct {
	seq int
	doc store.Document
}

// NewMemoryDocumentStore creates an empty store.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{collections: make(map[string]map[string]*memoryEntry)}
}

// Ensure MemoryDocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*MemoryDocumentStore)(nil)

func (m *MemoryDocumentStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return store.Now()
}

func (m *MemoryDocumentStore) collection(name string) map[string]*memoryEntry {
	if m.collections == nil {
		m.collections = make(map[string]map[string]*memoryEntry)
	}
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]*memoryEntry)
		m.collections[name] = c
	}
	return c
}

// Create implements store.DocumentStore.Create.
func (m *MemoryDocumentStore) Create(_ context.Context, collection string, fields store.Document) (store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	now := m.now()
	doc := store.MutableFields(fields)
	doc[store.FieldID] = uuid.NewString()
	doc[store.FieldCreatedAt] = now
	doc[store.FieldUpdatedAt] = now

	m.seq++
	m.collection(collection)[doc.ID()] = &memoryEntry{seq: m.seq, doc: doc}
	return doc.Clone(), nil
}

// List implements store.DocumentStore.List.
func (m *MemoryDocumentStore) List(
	_ context.Context,
	collection string,
	filter store.Filter,
	limit int,
) ([]store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	matched := make([]*memoryEntry, 0)
	for _, e := range m.collection(collection) {
		if filter.Matches(e.doc) {
			matched = append(matched, e)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		ci, _ := matched[i].doc[store.FieldCreatedAt].(time.Time)
		cj, _ := matched[j].doc[store.FieldCreatedAt].(time.Time)
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return matched[i].seq > matched[j].seq
	})

	if n := store.NormalizeLimit(limit); len(matched) > n {
		matched = matched[:n]
	}

	docs := make([]store.Document, 0, len(matched))
	for _, e := range matched {
		docs = append(docs, e.doc.Clone())
	}
	return docs, nil
}

// Update implements store.DocumentStore.Update.
func (m *MemoryDocumentStore) Update(
	_ context.Context,
	collection, id string,
	fields store.Document,
) (store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, store.ErrInvalidID
	}

	e, ok := m.collection(collection)[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	for k, v := range store.MutableFields(fields) {
		e.doc[k] = v
	}
	now := m.now()
	if prev, ok := e.doc[store.FieldUpdatedAt].(time.Time); !ok || now.After(prev) {
		e.doc[store.FieldUpdatedAt] = now
	}
	return e.doc.Clone(), nil
}

// Delete implements store.DocumentStore.Delete.
func (m *MemoryDocumentStore) Delete(_ context.Context, collection, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return false, m.Err
	}
	if _, err := uuid.Parse(id); err != nil {
		return false, store.ErrInvalidID
	}

	c := m.collection(collection)
	if _, ok := c[id]; !ok {
		return false, nil
	}
	delete(c, id)
	return true, nil
}

// Len returns the number of documents in collection.
func (m *MemoryDocumentStore) Len(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.collections[collection])
}
