package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

const (
	DefaultZip         = "90210"
	DefaultMaxDistance = 50

	// unknownDistance orders sessions without a distance after real ones.
	unknownDistance = 999
	filterAll       = "all"

	maxSlugAttempts = 5
)

// GameLookup resolves a BoardGameGeek id to its details. Nil details mean no
// such game.
type GameLookup interface {
	Details(ctx context.Context, gameID string) (*domain.GameDetails, error)
}

// NewSession is what a host supplies to schedule a game night. Either Game
// or BGGID must be set.
type NewSession struct {
	Game        string
	BGGID       string
	Date        time.Time
	Title       string
	Description string
	ZipCode     string
	HostID      string
	HostName    string
	MaxPlayers  int
	IsPublic    bool
}

type NearbyQuery struct {
	// Zip of the user. Empty falls back to the profile of UID, then to the
	// service default.
	Zip         string
	UID         string
	MaxDistance int
	GameType    string
	Status      string
}

type SessionService struct {
	sessions           domain.SessionRepository
	profiles           domain.ProfileRepository
	slugs              *SlugGenerator
	games              GameLookup
	defaultZip         string
	defaultMaxDistance int
	log                logger.Logger
}

// NewSessionService wires session lookups and creation. games may be nil,
// in which case BoardGameGeek ids are stored unchecked.
func NewSessionService(sessions domain.SessionRepository, profiles domain.ProfileRepository,
	slugs *SlugGenerator, games GameLookup,
	defaultZip string, defaultMaxDistance int, log logger.Logger) *SessionService {
	if defaultZip == "" {
		defaultZip = DefaultZip
	}
	if defaultMaxDistance <= 0 {
		defaultMaxDistance = DefaultMaxDistance
	}
	return &SessionService{
		sessions:           sessions,
		profiles:           profiles,
		slugs:              slugs,
		games:              games,
		defaultZip:         defaultZip,
		defaultMaxDistance: defaultMaxDistance,
		log:                log,
	}
}

// Distance is a stand-in for geocoding: the numeric difference between two
// zip codes divided by 100, rounded, read as miles.
func Distance(zipA, zipB string) (int, error) {
	a, err := strconv.Atoi(zipA)
	if err != nil {
		return 0, fmt.Errorf("zip %q: %w", zipA, domain.ErrInvalidInput)
	}
	b, err := strconv.Atoi(zipB)
	if err != nil {
		return 0, fmt.Errorf("zip %q: %w", zipB, domain.ErrInvalidInput)
	}

	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return int(math.Round(float64(diff) / 100)), nil
}

func (s *SessionService) GetSession(ctx context.Context, slug string) (*domain.Session, error) {
	if slug == "" {
		return nil, fmt.Errorf("session slug is required: %w", domain.ErrInvalidInput)
	}
	return s.sessions.GetSession(ctx, slug)
}

// Create schedules a session under a freshly generated slug, drawing a new
// slug whenever the store reports the previous one as taken.
func (s *SessionService) Create(ctx context.Context, in NewSession) (*domain.Session, error) {
	if in.Game == "" && in.BGGID == "" {
		return nil, fmt.Errorf("game or bgg id is required: %w", domain.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("session date is required: %w", domain.ErrInvalidInput)
	}
	if in.MaxPlayers < 0 {
		return nil, fmt.Errorf("max players must not be negative: %w", domain.ErrInvalidInput)
	}

	session := &domain.Session{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		GameType:    in.Game,
		ZipCode:     in.ZipCode,
		Status:      domain.SessionUpcoming,
		HostID:      in.HostID,
		HostName:    in.HostName,
		MaxPlayers:  in.MaxPlayers,
		Players:     []domain.Player{},
		BGGID:       in.BGGID,
		IsPublic:    in.IsPublic,
	}

	if in.BGGID != "" && s.games != nil {
		details, err := s.games.Details(ctx, in.BGGID)
		if err != nil {
			return nil, err
		}
		if details == nil {
			return nil, fmt.Errorf("unknown game %s: %w", in.BGGID, domain.ErrInvalidInput)
		}
		if session.GameType == "" {
			session.GameType = details.Name
		}
		session.ImageURL = details.Image
	}
	if session.GameType == "" {
		session.GameType = in.BGGID
	}
	if session.Title == "" {
		session.Title = session.GameType
	}

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		session.ID = s.slugs.Generate().Slug
		err := s.sessions.CreateSession(ctx, session)
		if err == nil {
			s.log.Info("Session created", "slug", session.ID, "game", session.GameType, "bgg_id", session.BGGID)
			return session, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		s.log.Debug("Session slug taken", "slug", session.ID, "attempt", attempt)
	}
	return nil, fmt.Errorf("no free session slug after %d attempts: %w", maxSlugAttempts, domain.ErrAlreadyExists)
}

// Delete removes the session with the given slug. A missing session is
// reported as domain.ErrNotFound.
func (s *SessionService) Delete(ctx context.Context, slug string) error {
	if _, err := s.GetSession(ctx, slug); err != nil {
		return err
	}
	if err := s.sessions.DeleteSession(ctx, slug); err != nil {
		return err
	}
	s.log.Info("Session deleted", "slug", slug)
	return nil
}

// Nearby lists sessions ordered by distance from the user's zip. Sessions
// with no known distance sort last and are never dropped by MaxDistance.
func (s *SessionService) Nearby(ctx context.Context, q NearbyQuery) ([]*domain.Session, error) {
	zip, err := s.resolveZip(ctx, q)
	if err != nil {
		return nil, err
	}
	if q.MaxDistance <= 0 {
		q.MaxDistance = s.defaultMaxDistance
	}
	if q.Status == "" {
		q.Status = string(domain.SessionUpcoming)
	}

	sessions, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	if len(zip) == 5 {
		if _, err := strconv.Atoi(zip); err != nil {
			return nil, fmt.Errorf("zip %q: %w", zip, domain.ErrInvalidInput)
		}
		for _, session := range sessions {
			d, err := Distance(zip, session.ZipCode)
			if err != nil {
				s.log.Debug("Session has no usable zip", "session_id", session.ID, "zip", session.ZipCode)
				continue
			}
			session.Distance = d
		}
		slices.SortStableFunc(sessions, func(a, b *domain.Session) int {
			return cmp.Compare(sortDistance(a), sortDistance(b))
		})
	}

	filtered := make([]*domain.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.Distance != 0 && session.Distance > q.MaxDistance {
			continue
		}
		if q.GameType != "" && q.GameType != filterAll && session.GameType != q.GameType {
			continue
		}
		if q.Status != filterAll && string(session.Status) != q.Status {
			continue
		}
		filtered = append(filtered, session)
	}
	return filtered, nil
}

func (s *SessionService) resolveZip(ctx context.Context, q NearbyQuery) (string, error) {
	if q.Zip != "" {
		return q.Zip, nil
	}
	if q.UID != "" {
		profile, err := s.profiles.GetProfileByUID(ctx, q.UID)
		switch {
		case err == nil && profile.ZipCode != "":
			return profile.ZipCode, nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return "", err
		}
	}
	return s.defaultZip, nil
}

func sortDistance(session *domain.Session) int {
	if session.Distance == 0 {
		return unknownDistance
	}
	return session.Distance
}
