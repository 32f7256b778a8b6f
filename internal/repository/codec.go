package repository

import (
	"encoding/json"
	"fmt"

	"github.com/dboots/bg-broadcast/internal/domain"
)

const (
	ListingsCollection = "listings"
	AuctionsCollection = "auctions"
	ProfilesCollection = "profiles"
	SessionsCollection = "sessions"
)

// toDocument flattens an entity through its JSON tags so every backend
// stores the same field names.
func toDocument(entity any) (domain.Document, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}
	return doc, nil
}

func fromDocument(doc domain.Document, entity any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func decodeAll[T any](docs []domain.Document) ([]*T, error) {
	entities := make([]*T, 0, len(docs))
	for _, doc := range docs {
		var entity T
		if err := fromDocument(doc, &entity); err != nil {
			return nil, err
		}
		entities = append(entities, &entity)
	}
	return entities, nil
}
