package snapshot

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

var snapshotsBucket = []byte("snapshots")

// BoltStore persists Snapshots to a bbolt file, one key per Game ID
// inside a single bucket, JSON-encoded — the same shape as the
// teacher's cmd/mservice/storage/bolt/bolt.go (bucket-per-collection,
// not bucket-per-id, since a governance game's snapshot history is
// small enough not to need per-id buckets).
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens (creating if necessary) a bbolt database at path
// and ensures the snapshots bucket exists.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open bolt store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: create bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save implements Store.
func (s *BoltStore) Save(id string, snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Put([]byte(id), b)
	})
}

// Load implements Store.
func (s *BoltStore) Load(id string) (Snapshot, bool, error) {
	var snap Snapshot
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(snapshotsBucket).Get([]byte(id))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &snap)
	})
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("snapshot: decode %s: %w", id, err)
	}
	return snap, found, nil
}

// Delete implements Store.
func (s *BoltStore) Delete(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Delete([]byte(id))
	})
}
