package repository

import (
	"context"
	"fmt"

	"github.com/dboots/bg-broadcast/internal/domain"
)

type DocumentSessionRepository struct {
	store domain.DocumentStore
}

func NewSessionRepository(store domain.DocumentStore) *DocumentSessionRepository {
	return &DocumentSessionRepository{store: store}
}

func (r *DocumentSessionRepository) GetSession(ctx context.Context, slug string) (*domain.Session, error) {
	doc, err := r.store.Get(ctx, SessionsCollection, slug)
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := fromDocument(doc, &session); err != nil {
		return nil, fmt.Errorf("session %s: %w", slug, err)
	}
	return &session, nil
}

func (r *DocumentSessionRepository) ListSessions(ctx context.Context) ([]*domain.Session, error) {
	docs, err := r.store.List(ctx, SessionsCollection)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Session](docs)
}

// CreateSession stores the session under its slug. Slugs are never
// reassigned here; a taken slug surfaces as domain.ErrAlreadyExists.
func (r *DocumentSessionRepository) CreateSession(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session slug is required: %w", domain.ErrInvalidInput)
	}

	doc, err := toDocument(session)
	if err != nil {
		return err
	}
	if _, err := r.store.Insert(ctx, SessionsCollection, doc); err != nil {
		return err
	}
	return nil
}

func (r *DocumentSessionRepository) DeleteSession(ctx context.Context, slug string) error {
	return r.store.Delete(ctx, SessionsCollection, slug)
}
