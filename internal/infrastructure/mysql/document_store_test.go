package mysql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dboots/bg-broadcast/internal/domain"
)

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name      string
		filters   []domain.Filter
		wantQuery string
		wantArgs  []interface{}
	}{
		{
			name:      "no filters",
			wantQuery: `SELECT body FROM documents WHERE collection = ? ORDER BY seq`,
			wantArgs:  []interface{}{"listings"},
		},
		{
			name:      "equality",
			filters:   []domain.Filter{domain.Eq("auction_id", "a1")},
			wantQuery: `SELECT body FROM documents WHERE collection = ? AND JSON_EXTRACT(body, ?) = CAST(? AS JSON) ORDER BY seq`,
			wantArgs:  []interface{}{"listings", `$."auction_id"`, `"a1"`},
		},
		{
			name:      "in",
			filters:   []domain.Filter{domain.In("id", []string{"l1", "l2"})},
			wantQuery: `SELECT body FROM documents WHERE collection = ? AND JSON_CONTAINS(CAST(? AS JSON), JSON_EXTRACT(body, ?)) ORDER BY seq`,
			wantArgs:  []interface{}{"listings", `["l1","l2"]`, `$."id"`},
		},
		{
			name:    "combined",
			filters: []domain.Filter{domain.Eq("status", "open"), domain.Eq("rank", 3)},
			wantQuery: `SELECT body FROM documents WHERE collection = ?` +
				` AND JSON_EXTRACT(body, ?) = CAST(? AS JSON)` +
				` AND JSON_EXTRACT(body, ?) = CAST(? AS JSON) ORDER BY seq`,
			wantArgs: []interface{}{"listings", `$."status"`, `"open"`, `$."rank"`, `3`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildListQuery("listings", tt.filters)
			require.NoError(t, err)
			require.Equal(t, tt.wantQuery, query)
			require.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildListQuery_RejectsUnsafeInput(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.Filter
	}{
		{"quoted field", domain.Eq(`id" OR 1=1`, "x")},
		{"path field", domain.Eq("a.b", "x")},
		{"in without list", domain.In("id", "l1")},
		{"unknown op", domain.Filter{Field: "id", Op: "<", Value: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := buildListQuery("listings", []domain.Filter{tt.filter})
			require.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestEncode_ForcesID(t *testing.T) {
	body, err := encode(domain.Document{"id": "other", "title": "Catan"}, "l1")
	require.NoError(t, err)

	doc, err := decode(body)
	require.NoError(t, err)
	require.Equal(t, "l1", doc["id"])
	require.Equal(t, "Catan", doc["title"])
}
