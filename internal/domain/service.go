package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type Service struct {
	store   ProfileStore
	fetcher ProfileFetcher
	cfg     *Config
	now     func() time.Time
}

type SearchProfile struct {
	username  *string
	profileID *int64
}

type SearchProfileOp func(*SearchProfile)

func WithUsername(username string) SearchProfileOp {
	return func(sp *SearchProfile) {
		sp.username = lo.ToPtr(username)
	}
}

func WithProfileID(id int64) SearchProfileOp {
	return func(sp *SearchProfile) {
		sp.profileID = lo.ToPtr(id)
	}
}

type IService interface {
	Refresh(context.Context) (UserProfile, error)
	FindProfile(context.Context, ...SearchProfileOp) (Snapshot, error)
	Profiles(context.Context) ([]Snapshot, error)
}

// NewService wires the service. fetcher may be nil when only stored
// snapshots are read.
func NewService(cfg *Config, store ProfileStore, fetcher ProfileFetcher) IService {
	return &Service{
		store:   store,
		fetcher: fetcher,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Refresh implements IService.
func (s *Service) Refresh(ctx context.Context) (UserProfile, error) {
	if s.cfg.GitHub.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GitHub.Timeout)
		defer cancel()
	}

	if s.fetcher == nil {
		return UserProfile{}, errors.New("refresh: no profile fetcher")
	}

	profile, err := s.fetcher.FetchUserProfile(ctx)
	if err != nil {
		return UserProfile{}, fmt.Errorf("fetch profile: %w", err)
	}

	// snapshots are keyed by login
	if profile.Username == "" {
		return UserProfile{}, fmt.Errorf("snapshot without username: id %d: %w", profile.ID, ErrParse)
	}

	err = s.store.SaveSnapshot(ctx, Snapshot{
		Profile:   profile,
		FetchedAt: s.now().UTC(),
	})
	if err != nil {
		return UserProfile{}, fmt.Errorf("save snapshot: %w", err)
	}

	log.Info().Str("user", profile.Username).Int64("id", profile.ID).Msg("profile refreshed")

	return profile, nil
}

// FindProfile implements IService.
func (s *Service) FindProfile(ctx context.Context, ops ...SearchProfileOp) (Snapshot, error) {
	var sp SearchProfile

	for _, op := range ops {
		op(&sp)
	}
	switch {
	case sp.username != nil:
		return s.store.ReadSnapshot(ctx, *sp.username)
	case sp.profileID != nil:
		return s.store.ReadSnapshotByID(ctx, *sp.profileID)
	default:
		return Snapshot{}, ErrNotFound
	}
}

// Profiles implements IService.
func (s *Service) Profiles(ctx context.Context) ([]Snapshot, error) {
	snapshots, err := s.store.Snapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	return snapshots, nil
}
