package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/dboots/bg-broadcast/internal/domain"
)

type collection struct {
	order []string
	docs  map[string][]byte
}

// DocumentStore is a concurrency-safe in-memory implementation of
// domain.DocumentStore. Documents are held as encoded JSON so callers never
// share maps with the store, and List returns them in insertion order.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]*collection),
	}
}

func (s *DocumentStore) Get(ctx context.Context, name, id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", name, id, domain.ErrNotFound)
	}
	raw, ok := c.docs[id]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", name, id, domain.ErrNotFound)
	}
	return decode(raw)
}

func (s *DocumentStore) List(ctx context.Context, name string, filters ...domain.Filter) ([]domain.Document, error) {
	normalized, err := normalizeFilters(filters)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := []domain.Document{}
	c, ok := s.collections[name]
	if !ok {
		return docs, nil
	}

	for _, id := range c.order {
		doc, err := decode(c.docs[id])
		if err != nil {
			return nil, err
		}
		if matches(doc, normalized) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *DocumentStore) Insert(ctx context.Context, name string, doc domain.Document) (string, error) {
	id, _ := doc["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}

	raw, err := encode(doc, id)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string][]byte)}
		s.collections[name] = c
	}
	if _, exists := c.docs[id]; exists {
		return "", fmt.Errorf("insert %s/%s: %w", name, id, domain.ErrAlreadyExists)
	}

	c.docs[id] = raw
	c.order = append(c.order, id)
	return id, nil
}

func (s *DocumentStore) Update(ctx context.Context, name, id string, doc domain.Document) error {
	raw, err := encode(doc, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("update %s/%s: %w", name, id, domain.ErrNotFound)
	}
	if _, exists := c.docs[id]; !exists {
		return fmt.Errorf("update %s/%s: %w", name, id, domain.ErrNotFound)
	}

	c.docs[id] = raw
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return nil
	}
	if _, exists := c.docs[id]; !exists {
		return nil
	}

	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func encode(doc domain.Document, id string) ([]byte, error) {
	withID := make(domain.Document, len(doc)+1)
	for k, v := range doc {
		withID[k] = v
	}
	withID["id"] = id

	raw, err := json.Marshal(withID)
	if err != nil {
		return nil, fmt.Errorf("encode document %s: %w", id, err)
	}
	return raw, nil
}

func decode(raw []byte) (domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// normalizeFilters passes filter values through JSON so they compare equal
// to stored values (numbers become float64, typed strings become string).
func normalizeFilters(filters []domain.Filter) ([]domain.Filter, error) {
	normalized := make([]domain.Filter, 0, len(filters))
	for _, f := range filters {
		raw, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.Field, err)
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.Field, err)
		}

		switch f.Op {
		case domain.OpEqual:
		case domain.OpIn:
			if _, ok := value.([]any); !ok {
				return nil, fmt.Errorf("filter %s: in needs a list: %w", f.Field, domain.ErrInvalidInput)
			}
		default:
			return nil, fmt.Errorf("filter %s: unsupported op %q: %w", f.Field, f.Op, domain.ErrInvalidInput)
		}

		normalized = append(normalized, domain.Filter{Field: f.Field, Op: f.Op, Value: value})
	}
	return normalized, nil
}

func matches(doc domain.Document, filters []domain.Filter) bool {
	for _, f := range filters {
		field, ok := doc[f.Field]
		if !ok {
			return false
		}

		switch f.Op {
		case domain.OpEqual:
			if !reflect.DeepEqual(field, f.Value) {
				return false
			}
		case domain.OpIn:
			found := false
			for _, candidate := range f.Value.([]any) {
				if reflect.DeepEqual(field, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}
