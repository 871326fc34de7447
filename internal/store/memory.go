package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// serverTimestampSentinel marks a field to be assigned the write time, the
// way firestore.ServerTimestamp does for the real store.
type serverTimestampSentinel struct{}

// Memory is an in-memory Store with Firestore-like semantics: documents
// enumerate in insertion order, deleting a document leaves its
// subcollections in place, and parents that only exist through
// subcollections still show up in ListChildIDs. Used by unit tests and
// emulator-free local runs.
type Memory struct {
	mu     sync.Mutex
	paths  []string
	docs   map[string]map[string]any
	writes int
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]any)}
}

// WriteCount reports how many mutations (set, add, delete) the store has
// seen, so tests can assert that a run performed no writes.
func (m *Memory) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *Memory) ListChildIDs(ctx context.Context, collectionPath string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := collectionPath + "/"
	seen := make(map[string]bool)
	var ids []string
	for _, path := range m.paths {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		id, _, _ := strings.Cut(strings.TrimPrefix(path, prefix), "/")
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *Memory) GetDocuments(ctx context.Context, collectionPath string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := collectionPath + "/"
	var docs []Document
	for _, path := range m.paths {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		id := strings.TrimPrefix(path, prefix)
		if strings.Contains(id, "/") {
			continue // document of a nested collection
		}
		if fields, ok := m.docs[path]; ok {
			docs = append(docs, Document{ID: id, Fields: copyFields(fields)})
		}
	}
	return docs, nil
}

func (m *Memory) GetDocument(ctx context.Context, path string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields, ok := m.docs[path]
	if !ok {
		return Document{}, ErrNotFound
	}
	id := path[strings.LastIndex(path, "/")+1:]
	return Document{ID: id, Fields: copyFields(fields)}, nil
}

func (m *Memory) QueryEquals(ctx context.Context, collectionPath, field string, value any) ([]Document, error) {
	docs, err := m.GetDocuments(ctx, collectionPath)
	if err != nil {
		return nil, err
	}
	var matched []Document
	for _, doc := range docs {
		if valuesEqual(doc.Fields[field], value) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

func (m *Memory) SetDocument(ctx context.Context, path string, fields map[string]any, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	existing, exists := m.docs[path]
	if !exists {
		m.paths = append(m.paths, path)
	}
	if merge && exists {
		for name, value := range fields {
			existing[name] = resolveTimestamp(value)
		}
		return nil
	}
	m.docs[path] = resolveFields(fields)
	return nil
}

func (m *Memory) AddDocument(ctx context.Context, collectionPath string, fields map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	id := uuid.NewString()
	path := collectionPath + "/" + id
	m.paths = append(m.paths, path)
	m.docs[path] = resolveFields(fields)
	return id, nil
}

func (m *Memory) DeleteDocument(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if _, ok := m.docs[path]; !ok {
		return nil
	}
	delete(m.docs, path)
	// The path stays listed only if subcollection documents still hang off
	// it; rebuild the order without the exact entry.
	for i, p := range m.paths {
		if p == path {
			m.paths = append(m.paths[:i], m.paths[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) ServerTimestamp() any {
	return serverTimestampSentinel{}
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for name, value := range fields {
		out[name] = value
	}
	return out
}

func resolveFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for name, value := range fields {
		out[name] = resolveTimestamp(value)
	}
	return out
}

func resolveTimestamp(value any) any {
	if _, ok := value.(serverTimestampSentinel); ok {
		return time.Now().UTC()
	}
	return value
}

// valuesEqual compares field values the way an equality filter does,
// treating the integer and float encodings of the same number as equal.
func valuesEqual(a, b any) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		return af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
