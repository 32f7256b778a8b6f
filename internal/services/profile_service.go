package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

type ProfileService struct {
	profiles domain.ProfileRepository
	listings domain.ListingRepository
	log      logger.Logger
}

func NewProfileService(profiles domain.ProfileRepository, listings domain.ListingRepository, log logger.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		listings: listings,
		log:      log,
	}
}

// GetProfile returns the profile for uid with its saved listings resolved.
func (s *ProfileService) GetProfile(ctx context.Context, uid string) (*domain.Profile, error) {
	if uid == "" {
		return nil, fmt.Errorf("uid is required: %w", domain.ErrInvalidInput)
	}

	profile, err := s.profiles.GetProfileByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	listings, err := s.listings.ListListingsByIDs(ctx, profile.Saved)
	if err != nil {
		return nil, err
	}
	profile.Listings = listings
	return profile, nil
}

// ToggleSaved adds listingID to the profile's saved list, or removes it
// when already saved. A user without a profile gets one.
func (s *ProfileService) ToggleSaved(ctx context.Context, uid, listingID string) (*domain.Profile, error) {
	if uid == "" || listingID == "" {
		return nil, fmt.Errorf("uid and listing id are required: %w", domain.ErrInvalidInput)
	}

	profile, err := s.profiles.GetProfileByUID(ctx, uid)
	if errors.Is(err, domain.ErrNotFound) {
		profile = &domain.Profile{UID: uid, Saved: []string{listingID}}
		if err := s.profiles.CreateProfile(ctx, profile); err != nil {
			return nil, err
		}
		s.log.Info("Created profile with saved listing", "uid", uid, "listing_id", listingID)
		return profile, nil
	}
	if err != nil {
		return nil, err
	}

	if i := slices.Index(profile.Saved, listingID); i >= 0 {
		profile.Saved = slices.Delete(profile.Saved, i, i+1)
	} else {
		profile.Saved = append(profile.Saved, listingID)
	}
	if profile.Saved == nil {
		profile.Saved = []string{}
	}

	if err := s.profiles.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
