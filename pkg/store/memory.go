package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// Memory is an in-process Driver used by tests and by the migrate command's
// dry-run mode. It mimics the merge/ordering semantics of the Mongo driver
// closely enough that repository and service code cannot tell them apart.
type Memory struct {
	mu     sync.RWMutex
	seq    int
	tables map[string][]bson.M
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]bson.M)}
}

func (m *Memory) Create(_ context.Context, collection string, doc any) (string, error) {
	d, err := toDoc(doc)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	id := fmt.Sprintf("mem-%d", m.seq)
	d["_id"] = id
	m.tables[collection] = append(m.tables[collection], d)
	return id, nil
}

func (m *Memory) Update(_ context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.tables[collection] {
		if d["_id"] == id {
			for k, v := range fields {
				d[k] = normalize(v)
			}
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.tables[collection]
	for i, d := range docs {
		if d["_id"] == id {
			m.tables[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) BatchUpdate(ctx context.Context, collection string, updates []BatchUpdate) error {
	for _, u := range updates {
		if err := m.Update(ctx, collection, u.ID, u.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) FindAll(_ context.Context, collection, sortField string, descending bool, out any) error {
	// Update mutates stored documents in place, so readers deep-copy them
	// while holding the lock.
	m.mu.RLock()
	docs := make([]bson.M, 0, len(m.tables[collection]))
	for _, d := range m.tables[collection] {
		cp, err := toDoc(d)
		if err != nil {
			m.mu.RUnlock()
			return err
		}
		docs = append(docs, cp)
	}
	m.mu.RUnlock()

	sort.SliceStable(docs, func(i, j int) bool {
		less := compareValues(docs[i][sortField], docs[j][sortField]) < 0
		if descending {
			return !less && compareValues(docs[i][sortField], docs[j][sortField]) != 0
		}
		return less
	})

	outV := reflect.ValueOf(out)
	if outV.Kind() != reflect.Ptr || outV.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("store: FindAll out must be a pointer to a slice, got %T", out)
	}

	sliceV := outV.Elem()
	result := reflect.MakeSlice(sliceV.Type(), 0, len(docs))
	elemT := sliceV.Type().Elem()

	for _, d := range docs {
		raw, err := bson.Marshal(d)
		if err != nil {
			return fmt.Errorf("store: marshal %s: %w", collection, err)
		}
		ev := reflect.New(elemT)
		if err := bson.Unmarshal(raw, ev.Interface()); err != nil {
			return fmt.Errorf("store: decode %s: %w", collection, err)
		}
		result = reflect.Append(result, ev.Elem())
	}

	sliceV.Set(result)
	return nil
}

func (m *Memory) Count(_ context.Context, collection string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.tables[collection])), nil
}

// toDoc converts an arbitrary document value into a bson.M through the same
// codec the Mongo driver uses, so tags and omitempty behave identically.
func toDoc(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("store: marshal: %w", err)
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("store: unmarshal: %w", err)
	}
	return d, nil
}

// normalize runs a field value through the bson codec so partial updates
// store the same shapes (e.g. offer arrays) as full documents.
func normalize(v any) any {
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return v
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return v
	}
	return d["v"]
}

func compareValues(a, b any) int {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
