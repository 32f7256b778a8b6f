package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

func listingIDs(listings []*domain.Listing) []string {
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestProfileService_GetProfile(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewProfileService(repos.profiles, repos.listings, logger.NewNop())

	profile, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "90403", profile.ZipCode)
	require.ElementsMatch(t, []string{"l1", "l3"}, listingIDs(profile.Listings))

	empty, err := svc.GetProfile(context.Background(), "u2")
	require.NoError(t, err)
	require.Empty(t, empty.Listings)

	_, err = svc.GetProfile(context.Background(), "nobody")
	require.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.GetProfile(context.Background(), "")
	require.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestProfileService_ToggleSaved(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewProfileService(repos.profiles, repos.listings, logger.NewNop())
	ctx := context.Background()

	profile, err := svc.ToggleSaved(ctx, "u1", "l1")
	require.NoError(t, err)
	require.Equal(t, []string{"l3"}, profile.Saved)

	profile, err = svc.ToggleSaved(ctx, "u1", "l1")
	require.NoError(t, err)
	require.Equal(t, []string{"l3", "l1"}, profile.Saved)

	stored, err := repos.profiles.GetProfileByUID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"l3", "l1"}, stored.Saved)
}

func TestProfileService_ToggleSavedRemovingLastKeepsEmptyList(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewProfileService(repos.profiles, repos.listings, logger.NewNop())
	ctx := context.Background()

	_, err := svc.ToggleSaved(ctx, "u2", "l2")
	require.NoError(t, err)
	profile, err := svc.ToggleSaved(ctx, "u2", "l2")
	require.NoError(t, err)
	require.NotNil(t, profile.Saved)
	require.Empty(t, profile.Saved)
}

func TestProfileService_ToggleSavedCreatesProfile(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewProfileService(repos.profiles, repos.listings, logger.NewNop())
	ctx := context.Background()

	profile, err := svc.ToggleSaved(ctx, "u9", "l5")
	require.NoError(t, err)
	require.NotEmpty(t, profile.ID)
	require.Equal(t, []string{"l5"}, profile.Saved)

	loaded, err := svc.GetProfile(ctx, "u9")
	require.NoError(t, err)
	require.Equal(t, []string{"l5"}, listingIDs(loaded.Listings))

	_, err = svc.ToggleSaved(ctx, "u9", "")
	require.True(t, errors.Is(err, domain.ErrInvalidInput))
}
