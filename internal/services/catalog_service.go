package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

// DefaultSearchDelay paces autocomplete searches against BoardGameGeek.
const DefaultSearchDelay = time.Second

type CatalogService struct {
	source      domain.BoardGameSource
	cache       domain.GameCache
	searchDelay time.Duration
	log         logger.Logger
}

// NewCatalogService wires the BGG source. cache may be nil.
func NewCatalogService(source domain.BoardGameSource, cache domain.GameCache, searchDelay time.Duration, log logger.Logger) *CatalogService {
	return &CatalogService{
		source:      source,
		cache:       cache,
		searchDelay: searchDelay,
		log:         log,
	}
}

// Search waits searchDelay before querying BGG. An empty query fails
// before any wait or upstream call.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.GameRecord, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required: %w", domain.ErrInvalidInput)
	}

	if s.searchDelay > 0 {
		timer := time.NewTimer(s.searchDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	records, err := s.source.SearchGames(ctx, query)
	if err != nil {
		s.logUpstreamError("Error searching BoardGameGeek", err, "query", query)
		return nil, err
	}

	results := slices.Collect(records)
	if results == nil {
		results = []domain.GameRecord{}
	}
	return results, nil
}

// Details returns nil details without error when BGG has no such game.
func (s *CatalogService) Details(ctx context.Context, gameID string) (*domain.GameDetails, error) {
	if gameID == "" {
		return nil, fmt.Errorf("game id is required: %w", domain.ErrInvalidInput)
	}

	if s.cache != nil {
		cached, ok, err := s.cache.GetGameDetails(ctx, gameID)
		if err != nil {
			s.log.Warn("Game cache lookup failed", "game_id", gameID, "error", err)
		} else if ok {
			return cached, nil
		}
	}

	details, err := s.source.GetGameDetails(ctx, gameID)
	if err != nil {
		s.logUpstreamError("Error fetching game details from BoardGameGeek", err, "game_id", gameID)
		return nil, err
	}

	if details != nil && s.cache != nil {
		if err := s.cache.SetGameDetails(ctx, gameID, details); err != nil {
			s.log.Warn("Failed to cache game details", "game_id", gameID, "error", err)
		}
	}
	return details, nil
}

// logUpstreamError keeps callers that hung up out of the error log.
func (s *CatalogService) logUpstreamError(msg string, err error, keysAndValues ...interface{}) {
	keysAndValues = append(keysAndValues, "error", err)
	if errors.Is(err, context.Canceled) {
		s.log.Debug(msg, keysAndValues...)
		return
	}
	s.log.Error(msg, keysAndValues...)
}
