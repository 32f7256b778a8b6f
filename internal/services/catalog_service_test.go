package services

import (
	"context"
	"errors"
	"iter"
	"slices"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/internal/domain/mocks"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

func TestCatalogService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockBoardGameSource(ctrl)
	svc := NewCatalogService(source, nil, 0, logger.NewNop())

	records := []domain.GameRecord{
		{ID: "13", Name: "Catan", YearPublished: "1995"},
		{ID: "27710", Name: "Catan Dice Game", YearPublished: "2007"},
	}
	source.EXPECT().SearchGames(gomock.Any(), "catan").Return(slices.Values(records), nil)

	got, err := svc.Search(context.Background(), "catan")
	require.NoError(t, err)
	require.Equal(t, records, got)
}

func TestCatalogService_SearchEmptyResultIsNotNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockBoardGameSource(ctrl)
	svc := NewCatalogService(source, nil, 0, logger.NewNop())

	source.EXPECT().SearchGames(gomock.Any(), "zzz").Return(slices.Values([]domain.GameRecord(nil)), nil)

	got, err := svc.Search(context.Background(), "zzz")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestCatalogService_SearchRejectsEmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewCatalogService(mocks.NewMockBoardGameSource(ctrl), nil, time.Hour, logger.NewNop())

	_, err := svc.Search(context.Background(), "")
	require.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCatalogService_SearchDelayHonoursContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewCatalogService(mocks.NewMockBoardGameSource(ctrl), nil, time.Hour, logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Search(ctx, "catan")
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCatalogService_SearchWaitsBeforeQuerying(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockBoardGameSource(ctrl)
	const delay = 30 * time.Millisecond
	svc := NewCatalogService(source, nil, delay, logger.NewNop())

	start := time.Now()
	var calledAfter time.Duration
	source.EXPECT().SearchGames(gomock.Any(), "catan").DoAndReturn(
		func(ctx context.Context, term string) (iter.Seq[domain.GameRecord], error) {
			calledAfter = time.Since(start)
			return slices.Values([]domain.GameRecord{{ID: "13", Name: "Catan"}}), nil
		})

	got, err := svc.Search(context.Background(), "catan")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.GreaterOrEqual(t, calledAfter, delay)
}

func TestCatalogService_SearchCanceledDuringDelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewCatalogService(mocks.NewMockBoardGameSource(ctrl), nil, time.Hour, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	_, err := svc.Search(ctx, "catan")
	require.True(t, errors.Is(err, context.Canceled))
}

func TestCatalogService_SearchUpstreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockBoardGameSource(ctrl)
	svc := NewCatalogService(source, nil, 0, logger.NewNop())

	source.EXPECT().SearchGames(gomock.Any(), "catan").Return(nil, &domain.UpstreamError{StatusCode: 503})

	_, err := svc.Search(context.Background(), "catan")
	var upstream *domain.UpstreamError
	require.True(t, errors.As(err, &upstream))
	require.Equal(t, 503, upstream.StatusCode)
}

func TestCatalogService_DetailsUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockBoardGameSource(ctrl)
	cache := mocks.NewMockGameCache(ctrl)
	svc := NewCatalogService(source, cache, 0, logger.NewNop())

	cached := &domain.GameDetails{ID: "13", Name: "Catan"}
	cache.EXPECT().GetGameDetails(gomock.Any(), "13").Return(cached, true, nil)

	got, err := svc.Details(context.Background(), "13")
	require.NoError(t, err)
	require.Same(t, cached, got)
}

func TestCatalogService_DetailsFillsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockBoardGameSource(ctrl)
	cache := mocks.NewMockGameCache(ctrl)
	svc := NewCatalogService(source, cache, 0, logger.NewNop())

	details := &domain.GameDetails{ID: "13", Name: "Catan"}
	gomock.InOrder(
		cache.EXPECT().GetGameDetails(gomock.Any(), "13").Return(nil, false, errors.New("redis down")),
		source.EXPECT().GetGameDetails(gomock.Any(), "13").Return(details, nil),
		cache.EXPECT().SetGameDetails(gomock.Any(), "13", details).Return(nil),
	)

	got, err := svc.Details(context.Background(), "13")
	require.NoError(t, err)
	require.Equal(t, details, got)
}

func TestCatalogService_DetailsCachedUnderRequestedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockBoardGameSource(ctrl)
	cache := mocks.NewMockGameCache(ctrl)
	svc := NewCatalogService(source, cache, 0, logger.NewNop())

	// No objectid upstream: the record must still be found again by "013".
	details := &domain.GameDetails{Name: "Catan"}
	cache.EXPECT().GetGameDetails(gomock.Any(), "013").Return(nil, false, nil)
	source.EXPECT().GetGameDetails(gomock.Any(), "013").Return(details, nil)
	cache.EXPECT().SetGameDetails(gomock.Any(), "013", details).Return(nil)

	_, err := svc.Details(context.Background(), "013")
	require.NoError(t, err)
}

func TestCatalogService_DetailsNotFoundIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockBoardGameSource(ctrl)
	cache := mocks.NewMockGameCache(ctrl)
	svc := NewCatalogService(source, cache, 0, logger.NewNop())

	cache.EXPECT().GetGameDetails(gomock.Any(), "0").Return(nil, false, nil)
	source.EXPECT().GetGameDetails(gomock.Any(), "0").Return(nil, nil)

	got, err := svc.Details(context.Background(), "0")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCatalogService_DetailsRejectsEmptyID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewCatalogService(mocks.NewMockBoardGameSource(ctrl), nil, 0, logger.NewNop())

	_, err := svc.Details(context.Background(), "")
	require.True(t, errors.Is(err, domain.ErrInvalidInput))
}
