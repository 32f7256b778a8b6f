package bgg

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newClient(srv.Client(), srv.URL+"/", logger.NewNop())
}

func TestClient_SearchGames(t *testing.T) {
	var gotPath, gotSearch string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSearch = r.URL.Query().Get("search")
		_, _ = w.Write([]byte(searchXML))
	})

	seq, err := c.SearchGames(context.Background(), "catan & co")
	require.NoError(t, err)

	results := slices.Collect(seq)
	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, "catan & co", gotSearch)
	require.Len(t, results, 3)
	assert.Equal(t, "Carcassonne", results[1].Name)
}

func TestClient_GetGameDetails(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(detailsXML))
	})

	details, err := c.GetGameDetails(context.Background(), "13")
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, "/game/13", gotPath)
	assert.Equal(t, "Catan", details.Name)
}

func TestClient_GetGameDetails_NotFoundIsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<boardgames><error>not found</error></boardgames>`))
	})

	details, err := c.GetGameDetails(context.Background(), "0")
	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestClient_Non2xxCarriesStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := c.GetGameDetails(context.Background(), "13")
		var upstream *domain.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, status, upstream.StatusCode)

		_, err = c.SearchGames(context.Background(), "x")
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, status, upstream.StatusCode)
	}
}

func TestClient_DoesNotRetry(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetGameDetails(context.Background(), "13")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newClient(srv.Client(), srv.URL, logger.NewNop())
	srv.Close()

	_, err := c.GetGameDetails(context.Background(), "13")
	require.Error(t, err)

	var upstream *domain.UpstreamError
	assert.False(t, errors.As(err, &upstream))
}
