package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
	bolt "go.etcd.io/bbolt"

	"github.com/h2hsecure/ghprofile/internal/domain"
)

const (
	bucketProfiles = "profiles"
)

func NewBoltStore(path string, readOnly bool) (domain.ProfileStore, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: 10 * time.Second, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("db open: path '%s' %w", path, err)
	}

	if readOnly {
		return &boltAdapter{db: db}, nil
	}

	tx, err := db.Begin(true)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db begin: %w", err)
	}

	_, err = tx.CreateBucketIfNotExists([]byte(bucketProfiles))
	if err != nil {
		_ = tx.Rollback()
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &boltAdapter{db: db}, nil
}

type boltAdapter struct {
	db *bolt.DB
}

func (b *boltAdapter) Close() error {
	return b.db.Close()
}

// SaveSnapshot implements ProfileStore.
func (b *boltAdapter) SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	if snapshot.Profile.Username == "" {
		return fmt.Errorf("snapshot without username: id %d: %w", snapshot.Profile.ID, domain.ErrParse)
	}

	m, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("db value marshal: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketProfiles))
		if bucket == nil {
			return fmt.Errorf("db bucket not found: %s", bucketProfiles)
		}

		if err := bucket.Put([]byte(snapshot.Profile.Username), m); err != nil {
			return fmt.Errorf("db put: %w", err)
		}

		return nil
	})
}

// ReadSnapshot implements ProfileStore.
func (b *boltAdapter) ReadSnapshot(ctx context.Context, username string) (domain.Snapshot, error) {
	var snapshot domain.Snapshot

	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketProfiles))
		if bucket == nil {
			return fmt.Errorf("profile not found: %s: %w", username, domain.ErrNotFound)
		}

		raw := bucket.Get([]byte(username))
		if raw == nil {
			return fmt.Errorf("profile not found: %s: %w", username, domain.ErrNotFound)
		}

		if err := json.Unmarshal(raw, &snapshot); err != nil {
			return fmt.Errorf("db value unmarshal: %w", err)
		}

		return nil
	})

	return snapshot, err
}

// ReadSnapshotByID implements ProfileStore.
func (b *boltAdapter) ReadSnapshotByID(ctx context.Context, id int64) (domain.Snapshot, error) {
	snapshots, err := b.Snapshots(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	snapshot, found := lo.Find(snapshots, func(item domain.Snapshot) bool {
		return item.Profile.ID == id
	})
	if !found {
		return domain.Snapshot{}, fmt.Errorf("profile not found: id %d: %w", id, domain.ErrNotFound)
	}

	return snapshot, nil
}

// Snapshots implements ProfileStore, ordered by username.
func (b *boltAdapter) Snapshots(ctx context.Context) ([]domain.Snapshot, error) {
	var raws [][]byte

	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketProfiles))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(_, v []byte) error {
			raws = append(raws, append([]byte(nil), v...))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("db foreach: %w", err)
	}

	snapshots := make([]domain.Snapshot, 0, len(raws))
	for _, raw := range raws {
		var snapshot domain.Snapshot
		if err := json.Unmarshal(raw, &snapshot); err != nil {
			return nil, fmt.Errorf("db value unmarshal: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}
