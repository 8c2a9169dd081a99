package store

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/chaos156/elearning/internal/apperrors"
)

// Memory is an in-process Store used by tests and local development. All
// documents are deep-copied on the way in and out, so callers never alias
// stored state. RunTransaction holds the write lock for the whole callback,
// which makes single-entity operations linearizable.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]map[string]interface{})}
}

func (m *Memory) Get(ctx context.Context, collection, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(collection, id)
}

func (m *Memory) Query(ctx context.Context, collection string, filters ...Filter) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.query(collection, filters), nil
}

func (m *Memory) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create(collection, data)
}

func (m *Memory) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(collection, id, data)
	return nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, updates []Update, preconditions ...Precondition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.collections[collection][id]
	if !ok {
		return apperrors.ErrNotFound
	}
	for _, pre := range preconditions {
		if !reflect.DeepEqual(data[pre.Field], pre.Equals) {
			return apperrors.ErrConflict
		}
	}
	for _, u := range updates {
		data[u.Field] = cloneValue(u.Value)
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collection], id)
	return nil
}

func (m *Memory) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Snapshot for rollback so a failed callback leaves nothing half-applied.
	snapshot := make(map[string]map[string]map[string]interface{}, len(m.collections))
	for name, coll := range m.collections {
		copied := make(map[string]map[string]interface{}, len(coll))
		for id, data := range coll {
			copied[id] = cloneMap(data)
		}
		snapshot[name] = copied
	}

	if err := fn(ctx, &memoryTx{store: m}); err != nil {
		m.collections = snapshot
		return err
	}
	return nil
}

type memoryTx struct {
	store *Memory
}

func (t *memoryTx) Get(collection, id string) (*Document, error) {
	return t.store.get(collection, id)
}

func (t *memoryTx) Query(collection string, filters ...Filter) ([]*Document, error) {
	return t.store.query(collection, filters), nil
}

func (t *memoryTx) Create(collection string, data map[string]interface{}) (string, error) {
	return t.store.create(collection, data)
}

func (t *memoryTx) Set(collection, id string, data map[string]interface{}) error {
	t.store.set(collection, id, data)
	return nil
}

func (t *memoryTx) Update(collection, id string, updates []Update) error {
	data, ok := t.store.collections[collection][id]
	if !ok {
		return apperrors.ErrNotFound
	}
	for _, u := range updates {
		data[u.Field] = cloneValue(u.Value)
	}
	return nil
}

// Lock-free internals, called with m.mu already held.

func (m *Memory) get(collection, id string) (*Document, error) {
	data, ok := m.collections[collection][id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &Document{ID: id, Data: cloneMap(data)}, nil
}

func (m *Memory) query(collection string, filters []Filter) []*Document {
	var docs []*Document
	for id, data := range m.collections[collection] {
		if matches(data, filters) {
			docs = append(docs, &Document{ID: id, Data: cloneMap(data)})
		}
	}

	// Map iteration order is random; sort for reproducible reads.
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

func (m *Memory) create(collection string, data map[string]interface{}) (string, error) {
	id := uuid.NewString()
	m.set(collection, id, data)
	return id, nil
}

func (m *Memory) set(collection, id string, data map[string]interface{}) {
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]map[string]interface{})
	}
	m.collections[collection][id] = cloneMap(data)
}

func matches(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if !reflect.DeepEqual(data[f.Field], f.Value) {
			return false
		}
	}
	return true
}

func cloneMap(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return cloneMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]interface{}:
		out := make([]map[string]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneMap(item)
		}
		return out
	default:
		return v
	}
}
