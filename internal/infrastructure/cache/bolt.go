// Package cache keeps small JSON documents in a bbolt file with a TTL
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrMiss is returned when a key has never been stored
var ErrMiss = errors.New("cache miss")

// entry is the stored envelope around a cached value
type entry struct {
	StoredAt time.Time       `json:"stored_at"`
	Value    json.RawMessage `json:"value"`
}

// BoltCache is a TTL cache backed by a bbolt database file
type BoltCache struct {
	db     *bolt.DB
	bucket []byte
	ttl    time.Duration
	now    func() time.Time
}

// Open opens or creates the cache file at path
func Open(path, bucket string, ttl time.Duration) (*BoltCache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &BoltCache{db: db, bucket: []byte(bucket), ttl: ttl, now: time.Now}, nil
}

// Get decodes the value stored under key into out. fresh is false when the
// entry is older than the TTL; the stale value is still decoded so callers
// can fall back to it.
func (c *BoltCache) Get(key string, out any) (fresh bool, err error) {
	var e entry
	err = c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(c.bucket).Get([]byte(key))
		if data == nil {
			return ErrMiss
		}
		return json.Unmarshal(data, &e)
	})
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(e.Value, out); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return c.ttl <= 0 || c.now().Sub(e.StoredAt) < c.ttl, nil
}

// Put stores value under key
func (c *BoltCache) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry{StoredAt: c.now(), Value: raw})
	if err != nil {
		return err
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(c.bucket).Put([]byte(key), data)
	})
}

// Delete removes key
func (c *BoltCache) Delete(key string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(c.bucket).Delete([]byte(key))
	})
}

// Close closes the database file
func (c *BoltCache) Close() error {
	return c.db.Close()
}
