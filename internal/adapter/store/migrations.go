package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
	"ngramlm/internal/domain"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 2

var keySchemaVersion = []byte("schema_version")

// GetSchemaVersion returns the stored schema version, 0 for a fresh database.
func (s *BoltStore) GetSchemaVersion() (int, error) {
	var version int
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keySchemaVersion)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &version); err != nil {
			version = 1
		}
		return nil
	})
	return version, err
}

func (s *BoltStore) setSchemaVersion(version int) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(version)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, data)
	})
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	NeedsRebuild   bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// CheckMigration checks if migration or rebuild is needed.
func (s *BoltStore) CheckMigration() (*MigrationResult, error) {
	version, err := s.GetSchemaVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	result := &MigrationResult{
		OldVersion: version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", version, CurrentSchemaVersion)
	case version > CurrentSchemaVersion:
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("database created by newer version (v%d > v%d)", version, CurrentSchemaVersion)
	}

	return result, nil
}

// Migrate performs any necessary schema migrations.
func (s *BoltStore) Migrate() error {
	version, err := s.GetSchemaVersion()
	if err != nil {
		return err
	}

	for v := version; v < CurrentSchemaVersion; v++ {
		if err := s.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	return s.setSchemaVersion(CurrentSchemaVersion)
}

// runMigration runs a specific version migration.
func (s *BoltStore) runMigration(from, to int) error {
	switch {
	case from == 0 && to == 1:
		return nil
	case from == 1 && to == 2:
		// v2 adds the creation-time index used by ListRuns.
		return s.db.Update(func(tx *bbolt.Tx) error {
			idx, err := tx.CreateBucketIfNotExists(bucketRunsByTime)
			if err != nil {
				return err
			}
			return tx.Bucket(bucketRuns).ForEach(func(k, v []byte) error {
				var run domain.Run
				if err := json.Unmarshal(v, &run); err != nil {
					return fmt.Errorf("corrupt run %s: %w", k, err)
				}
				return idx.Put(timeKey(run), []byte(run.ID))
			})
		})
	default:
		return nil
	}
}

// Open opens the store at path and brings its schema up to date, clearing
// the history if it was written by a newer version.
func Open(path string) (*BoltStore, error) {
	st, err := NewBoltStore(path)
	if err != nil {
		return nil, err
	}

	result, err := st.CheckMigration()
	if err != nil {
		st.Close()
		return nil, err
	}

	if result.NeedsRebuild {
		if err := st.Clear(); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to clear history: %w", err)
		}
		if err := st.setSchemaVersion(0); err != nil {
			st.Close()
			return nil, err
		}
		result.NeedsMigration = true
	}

	if result.NeedsMigration {
		if err := st.Migrate(); err != nil {
			st.Close()
			return nil, err
		}
	}

	return st, nil
}

// Clear removes all recorded runs.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketRuns, bucketRunsByTime} {
			b := tx.Bucket(name)
			if b == nil {
				continue
			}

			// deleting under a live cursor skips keys, so collect first.
			var keys [][]byte
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				keys = append(keys, append([]byte(nil), k...))
			}
			for _, k := range keys {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
