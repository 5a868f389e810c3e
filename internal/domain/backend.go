package domain

import (
	"context"
)

// ProfileFetcher loads the profile of the user owning the access token.
type ProfileFetcher interface {
	FetchUserProfile(ctx context.Context) (UserProfile, error)
	ProfileID(ctx context.Context) (string, error)
	ProfileURL(ctx context.Context) (string, error)
}

// ProfileStore keeps the latest snapshot per username.
type ProfileStore interface {
	SaveSnapshot(context.Context, Snapshot) error
	ReadSnapshot(context.Context, string) (Snapshot, error)
	ReadSnapshotByID(context.Context, int64) (Snapshot, error)
	Snapshots(context.Context) ([]Snapshot, error)
	Close() error
}
