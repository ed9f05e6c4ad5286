package sidecar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketCounters   = []byte("counters")
	bucketCheckpoint = []byte("checkpoint")
)

// BoltStore implements Store using an embedded bbolt database as the
// internal source of truth: the JSON sidecar files are snapshots
// exported from it, not the primary store, so a crash mid-write to the
// JSON file can never corrupt the resumable state.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at <dataDir>/sidecar.db.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "sidecar.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open sidecar database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketCounters, bucketCheckpoint} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// GetCounters implements Store.
func (s *BoltStore) GetCounters(run string) (*Counters, error) {
	c := NewCounters()
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketCounters).Get([]byte(run))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, c)
	})
	return c, err
}

// SaveCounters implements Store.
func (s *BoltStore) SaveCounters(run string, c *Counters) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketCounters).Put([]byte(run), data)
	})
}

// GetCheckpoint implements Store.
func (s *BoltStore) GetCheckpoint(run string) (*Checkpoint, error) {
	cp := &Checkpoint{}
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketCheckpoint).Get([]byte(run))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, cp)
	})
	return cp, err
}

// SaveCheckpoint implements Store.
func (s *BoltStore) SaveCheckpoint(run string, cp *Checkpoint) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(cp)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketCheckpoint).Put([]byte(run), data)
	})
}

// ExportCountersJSON implements Store via a temp-file-plus-rename
// write, so readers never observe a partially written sidecar.
func (s *BoltStore) ExportCountersJSON(run, path string) error {
	c, err := s.GetCounters(run)
	if err != nil {
		return err
	}
	return atomicWriteJSON(path, c)
}

// ExportCheckpointJSON implements Store.
func (s *BoltStore) ExportCheckpointJSON(run, path string) error {
	cp, err := s.GetCheckpoint(run)
	if err != nil {
		return err
	}
	return atomicWriteJSON(path, cp)
}

// ImportCountersJSON implements Store, loading a run's counters from a
// sidecar file such as one ExportCountersJSON wrote; a missing file is not
// an error.
func (s *BoltStore) ImportCountersJSON(run, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read counters sidecar: %w", err)
	}
	c := NewCounters()
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse counters sidecar: %w", err)
	}
	return s.SaveCounters(run, c)
}

// ImportCheckpointJSON implements Store.
func (s *BoltStore) ImportCheckpointJSON(run, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read checkpoint sidecar: %w", err)
	}
	cp := &Checkpoint{}
	if err := json.Unmarshal(data, cp); err != nil {
		return fmt.Errorf("parse checkpoint sidecar: %w", err)
	}
	return s.SaveCheckpoint(run, cp)
}

func atomicWriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp sidecar file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename sidecar file: %w", err)
	}
	return nil
}
