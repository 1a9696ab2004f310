package state

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/osm"
	"go.etcd.io/bbolt"
)

var relationsBucket = []byte("relations")

// RelationStore persists raw relation payloads between runs, keyed by relation ID.
// Entries older than MaxAge are treated as missing; a zero MaxAge keeps them forever.
type RelationStore struct {
	DB     *bbolt.DB
	MaxAge time.Duration

	now func() time.Time
}

// OpenRelationStore opens (creating if needed) the bolt database at path.
// A writable DB holds a file lock; a second process opening the same path
// waits up to a second before failing.
func OpenRelationStore(path string, maxAge time.Duration) (*RelationStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open relation store %s: %w", path, err)
	}
	return &RelationStore{DB: db, MaxAge: maxAge, now: time.Now}, nil
}

func (s *RelationStore) Close() error {
	return s.DB.Close()
}

func relationKey(id osm.RelationID) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

// Put stores data for id, stamped with the current time.
func (s *RelationStore) Put(id osm.RelationID, data []byte) error {
	if data == nil {
		return fmt.Errorf("put relation %d: nil data", id)
	}
	value := make([]byte, 8, 8+len(data))
	binary.BigEndian.PutUint64(value, uint64(s.now().Unix()))
	value = append(value, data...)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(relationsBucket)
		if err != nil {
			return err
		}
		return bucket.Put(relationKey(id), value)
	})
}

// Get returns the stored payload for id, if present and fresh.
func (s *RelationStore) Get(id osm.RelationID) ([]byte, bool, error) {
	buf := bytes.NewBuffer([]byte{})
	found := false
	err := s.DB.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(relationsBucket)
		if bucket == nil {
			return nil
		}

		// The value returned by Get is only valid in the scope of the transaction.
		got := bucket.Get(relationKey(id))
		if len(got) < 8 {
			return nil
		}
		stored := time.Unix(int64(binary.BigEndian.Uint64(got[:8])), 0)
		if s.MaxAge > 0 && s.now().Sub(stored) > s.MaxAge {
			return nil
		}
		found = true
		_, err := buf.Write(got[8:])
		return err
	})
	if err != nil || !found {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

// Delete removes id from the store. Deleting a missing id is not an error.
func (s *RelationStore) Delete(id osm.RelationID) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(relationsBucket)
		if bucket == nil {
			return nil
		}
		return bucket.Delete(relationKey(id))
	})
}

// Len counts stored entries, fresh or not.
func (s *RelationStore) Len() (int, error) {
	n := 0
	err := s.DB.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(relationsBucket)
		if bucket == nil {
			return nil
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}
