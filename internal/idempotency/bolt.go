package idempotency

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "idempotency_records"

// BoltStore keeps records in an embedded bolt file. Expired records are
// removed by Purge, which the server runs on a sweeper.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// OpenBolt opens (or creates) the database at path and ensures the bucket exists
func OpenBolt(path string) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt path is required")
	}
	db, err := bolt.Open(path, BoltFileMode, &bolt.Options{Timeout: BoltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db, now: time.Now}, nil
}

func (s *BoltStore) Get(_ context.Context, key string) (*Record, error) {
	var rec *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return nil
		}
		var r Record
		if err := json.Unmarshal(v, &r); err != nil {
			return err
		}
		rec = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rec != nil && rec.Expired(s.now()) {
		return nil, nil
	}
	return rec, nil
}

// Save stores rec unless a live record already holds the key
func (s *BoltStore) Save(_ context.Context, rec *Record) (*Record, bool, error) {
	var result Record
	created := false

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		if existing := b.Get([]byte(rec.Key)); existing != nil {
			if err := json.Unmarshal(existing, &result); err != nil {
				return err
			}
			if !result.Expired(s.now()) {
				return nil
			}
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		result = *rec
		created = true
		return b.Put([]byte(rec.Key), data)
	})
	if err != nil {
		return nil, false, err
	}
	return &result, created, nil
}

func (s *BoltStore) Purge(_ context.Context, now time.Time) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		// collect first; deleting under a live cursor can skip keys
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil || r.Expired(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
