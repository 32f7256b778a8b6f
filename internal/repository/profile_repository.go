package repository

import (
	"context"
	"fmt"

	"github.com/dboots/bg-broadcast/internal/domain"
)

type DocumentProfileRepository struct {
	store domain.DocumentStore
}

func NewProfileRepository(store domain.DocumentStore) *DocumentProfileRepository {
	return &DocumentProfileRepository{store: store}
}

// GetProfileByUID returns the first profile whose uid matches.
func (r *DocumentProfileRepository) GetProfileByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	docs, err := r.store.List(ctx, ProfilesCollection, domain.Eq("uid", uid))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("profile for uid %s: %w", uid, domain.ErrNotFound)
	}

	var profile domain.Profile
	if err := fromDocument(docs[0], &profile); err != nil {
		return nil, fmt.Errorf("profile for uid %s: %w", uid, err)
	}
	return &profile, nil
}

// CreateProfile stores the profile and sets its ID when the store assigned one.
func (r *DocumentProfileRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	doc, err := toDocument(profile)
	if err != nil {
		return err
	}
	if profile.ID == "" {
		delete(doc, "id")
	}

	id, err := r.store.Insert(ctx, ProfilesCollection, doc)
	if err != nil {
		return err
	}
	profile.ID = id
	return nil
}

func (r *DocumentProfileRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	doc, err := toDocument(profile)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, ProfilesCollection, profile.ID, doc)
}
