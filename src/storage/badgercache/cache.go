// Package badgercache stores embedding vectors in BadgerDB, keyed by content
// hash, with a bounded TTL. Values are deterministic for a given key, so
// concurrent writers are idempotent and last-write-wins is safe.
package badgercache

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"

	"maarifa/src/core/embedding"
	"maarifa/src/log"
)

// Cache is a content-addressed vector cache backed by BadgerDB.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

var _ embedding.Cache = (*Cache)(nil)

// badgerLogger adapts the badger.Logger interface onto the service logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(msg string, args ...interface{}) {
	log.Error(fmt.Errorf(msg, args...), "badger error")
}

func (badgerLogger) Warningf(msg string, args ...interface{}) {
	log.Info(fmt.Sprintf(msg, args...))
}

func (badgerLogger) Infof(msg string, args ...interface{}) {
	log.Debug(fmt.Sprintf(msg, args...))
}

func (badgerLogger) Debugf(msg string, args ...interface{}) {
	log.V(2).Info(fmt.Sprintf(msg, args...))
}

// Open opens (or creates) a cache at path. An empty path opens an in-memory
// cache, which tests and cache-less deployments use.
func Open(path string, ttl time.Duration) (*Cache, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = badgerLogger{}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached vector for key, reporting whether it was present.
func (c *Cache) Get(_ context.Context, key string) (embedding.Vector, bool, error) {
	var vec embedding.Vector
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			vec, err = decodeVector(val)
			return err
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached vector: %w", err)
	}
	return vec, true, nil
}

// Set stores a vector under key with the configured TTL.
func (c *Cache) Set(_ context.Context, key string, vec embedding.Vector) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), encodeVector(vec))
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to cache vector: %w", err)
	}
	return nil
}

// encodeVector packs a vector as little-endian float32 bits.
func encodeVector(vec embedding.Vector) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(data []byte) (embedding.Vector, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("cached vector has %d bytes, not a multiple of 4", len(data))
	}
	vec := make(embedding.Vector, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vec, nil
}
