package kvdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/meghashyamc/lexfeat/logger"
	bolt "go.etcd.io/bbolt"
)

// A checkpoint is a standalone bolt file holding one JSON encoded collection.
var (
	checkpointBucket = []byte("checkpoint")
	checkpointKey    = []byte("collection")
)

// Save writes collection to a checkpoint file at path, replacing any previous
// checkpoint there. Failures are logged and returned.
func Save[T any](logger logger.Logger, path string, collection T) error {
	data, err := json.Marshal(collection)
	if err != nil {
		logger.Error("failed to encode checkpoint", "path", path, "err", err.Error())
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	store, err := bolt.Open(path, 0600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		logger.Error("failed to open checkpoint", "path", path, "err", err.Error())
		return fmt.Errorf("failed to open checkpoint %s: %w", path, err)
	}
	defer store.Close()

	err = store.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(checkpointBucket)
		if err != nil {
			return err
		}
		return bucket.Put(checkpointKey, data)
	})
	if err != nil {
		logger.Error("failed to write checkpoint", "path", path, "err", err.Error())
		return fmt.Errorf("failed to write checkpoint %s: %w", path, err)
	}

	return nil
}

// Load reads the collection saved at path. ok is false when there is no usable
// checkpoint; the reason is logged.
func Load[T any](logger logger.Logger, path string) (collection T, ok bool) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("no checkpoint found", "path", path)
		} else {
			logger.Error("failed to stat checkpoint", "path", path, "err", err.Error())
		}
		return collection, false
	}

	store, err := bolt.Open(path, 0600, &bolt.Options{Timeout: boltOpenTimeout, ReadOnly: true})
	if err != nil {
		logger.Error("failed to open checkpoint", "path", path, "err", err.Error())
		return collection, false
	}
	defer store.Close()

	var data []byte
	err = store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(checkpointBucket)
		if bucket == nil {
			return &NotFoundError{Key: string(checkpointBucket)}
		}
		v := bucket.Get(checkpointKey)
		if v == nil {
			return &NotFoundError{Key: string(checkpointKey)}
		}
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		logger.Error("failed to read checkpoint", "path", path, "err", err.Error())
		return collection, false
	}

	if err := json.Unmarshal(data, &collection); err != nil {
		logger.Error("failed to decode checkpoint", "path", path, "err", err.Error())
		var zero T
		return zero, false
	}

	return collection, true
}
