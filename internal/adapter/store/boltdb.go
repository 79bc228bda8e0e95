package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
	"ngramlm/internal/domain"
)

var (
	bucketRuns       = []byte("runs")
	bucketRunsByTime = []byte("runs_by_time")
	bucketMeta       = []byte("meta")
)

// BoltStore keeps the evaluation run history in a bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketRuns, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
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

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

// timeKey orders runs by creation time; the ID suffix keeps keys unique.
func timeKey(run domain.Run) []byte {
	key := make([]byte, 8, 8+len(run.ID))
	binary.BigEndian.PutUint64(key, uint64(run.CreatedAt.UnixNano()))
	return append(key, run.ID...)
}

func (s *BoltStore) PutRun(run domain.Run) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}

		runs := tx.Bucket(bucketRuns)
		if old := runs.Get([]byte(run.ID)); old != nil {
			var prev domain.Run
			if err := json.Unmarshal(old, &prev); err == nil {
				if idx := tx.Bucket(bucketRunsByTime); idx != nil {
					idx.Delete(timeKey(prev))
				}
			}
		}
		if err := runs.Put([]byte(run.ID), data); err != nil {
			return err
		}

		idx := tx.Bucket(bucketRunsByTime)
		if idx == nil {
			return nil
		}
		return idx.Put(timeKey(run), []byte(run.ID))
	})
}

func (s *BoltStore) GetRun(id string) (domain.Run, error) {
	var run domain.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRuns).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("run not found: %s", id)
		}
		return json.Unmarshal(data, &run)
	})
	return run, err
}

// ListRuns returns runs newest first.
func (s *BoltStore) ListRuns() ([]domain.Run, error) {
	var result []domain.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		idx := tx.Bucket(bucketRunsByTime)
		if idx == nil {
			return fmt.Errorf("run index missing, migration required")
		}
		runs := tx.Bucket(bucketRuns)

		c := idx.Cursor()
		for k, id := c.Last(); k != nil; k, id = c.Prev() {
			data := runs.Get(id)
			if data == nil {
				continue
			}
			var run domain.Run
			if err := json.Unmarshal(data, &run); err != nil {
				return err
			}
			result = append(result, run)
		}
		return nil
	})
	return result, err
}

func (s *BoltStore) DeleteRun(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		data := runs.Get([]byte(id))
		if data == nil {
			return nil
		}
		var run domain.Run
		if err := json.Unmarshal(data, &run); err != nil {
			return err
		}
		if idx := tx.Bucket(bucketRunsByTime); idx != nil {
			if err := idx.Delete(timeKey(run)); err != nil {
				return err
			}
		}
		return runs.Delete([]byte(id))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
