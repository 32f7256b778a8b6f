package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/dboots/bg-broadcast/internal/domain"
)

// Seed inserts the documents of a {"collection": [doc, ...]} JSON file.
// Documents that already exist are left untouched, so seeding a persistent
// store on every start is safe. It returns how many documents were inserted.
func Seed(ctx context.Context, store domain.DocumentStore, r io.Reader) (int, error) {
	var data map[string][]domain.Document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return 0, fmt.Errorf("decode seed data: %w", err)
	}

	collections := make([]string, 0, len(data))
	for name := range data {
		collections = append(collections, name)
	}
	slices.Sort(collections)

	inserted := 0
	for _, name := range collections {
		for _, doc := range data[name] {
			_, err := store.Insert(ctx, name, doc)
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			if err != nil {
				return inserted, fmt.Errorf("seed %s: %w", name, err)
			}
			inserted++
		}
	}
	return inserted, nil
}

func SeedFile(ctx context.Context, store domain.DocumentStore, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return Seed(ctx, store, f)
}
