package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	topicBucket = "topics"
	photoBucket = "photo_usage"

	counterValueBytes = 8
)

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{topicBucket, photoBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &boltStore{db: db}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenTopic checks if a topic with the given key has been processed.
func (b *boltStore) SeenTopic(key string) (bool, error) {
	if b == nil || b.db == nil || key == "" {
		return false, nil
	}

	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(topicBucket))
		if bucket == nil {
			return fmt.Errorf("topic bucket missing")
		}
		exists = bucket.Get([]byte(key)) != nil
		return nil
	})
	return exists, err
}

// MarkTopic records the given topic key as processed. The stored value is
// the processing time, kept for later inspection.
func (b *boltStore) MarkTopic(key string) error {
	if b == nil || b.db == nil || key == "" {
		return nil
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(topicBucket))
		if bucket == nil {
			return fmt.Errorf("topic bucket missing")
		}
		buf := make([]byte, counterValueBytes)
		binary.BigEndian.PutUint64(buf, uint64(time.Now().Unix()))
		return bucket.Put([]byte(key), buf)
	})
}

// PhotoUsage returns every photo usage counter.
func (b *boltStore) PhotoUsage() (map[string]uint64, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	usage := make(map[string]uint64)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(photoBucket))
		if bucket == nil {
			return fmt.Errorf("photo bucket missing")
		}
		return bucket.ForEach(func(k, v []byte) error {
			if len(v) == counterValueBytes {
				usage[string(k)] = binary.BigEndian.Uint64(v)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return usage, nil
}

// IncrementPhoto bumps the usage counter for the given photo name.
func (b *boltStore) IncrementPhoto(name string) error {
	if b == nil || b.db == nil || name == "" {
		return nil
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(photoBucket))
		if bucket == nil {
			return fmt.Errorf("photo bucket missing")
		}
		var count uint64
		if v := bucket.Get([]byte(name)); len(v) == counterValueBytes {
			count = binary.BigEndian.Uint64(v)
		}
		buf := make([]byte, counterValueBytes)
		binary.BigEndian.PutUint64(buf, count+1)
		return bucket.Put([]byte(name), buf)
	})
}

// ResetPhotoUsage drops and recreates the photo usage bucket.
func (b *boltStore) ResetPhotoUsage() error {
	if b == nil || b.db == nil {
		return nil
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(photoBucket)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(photoBucket))
		return err
	})
}
