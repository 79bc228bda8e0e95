package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"go.etcd.io/bbolt"
	"ngramlm/internal/domain"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testRun(id string, created time.Time) domain.Run {
	return domain.Run{
		ID:         id,
		Order:      2,
		TrainHash:  "abc",
		TestChars:  5,
		Likelihood: 1.0 / 3.0,
		Perplexity: 1.2457309396155174,
		CreatedAt:  created,
	}
}

func TestBoltStore_PutGetRun(t *testing.T) {
	st := openTestStore(t)
	run := testRun("run-1", time.Unix(1000, 0).UTC())

	if err := st.PutRun(run); err != nil {
		t.Fatal(err)
	}

	got, err := st.GetRun("run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Perplexity != run.Perplexity || got.Order != 2 || !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("round trip mismatch: %+v vs %+v", got, run)
	}

	if _, err := st.GetRun("missing"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestBoltStore_ListRunsNewestFirst(t *testing.T) {
	st := openTestStore(t)
	base := time.Unix(1000, 0).UTC()

	for i, id := range []string{"b", "c", "a"} {
		if err := st.PutRun(testRun(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := st.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	want := []string{"a", "c", "b"}
	for i, run := range runs {
		if run.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], run.ID)
		}
	}
}

func TestBoltStore_OverwriteAndDelete(t *testing.T) {
	st := openTestStore(t)
	base := time.Unix(1000, 0).UTC()

	if err := st.PutRun(testRun("x", base)); err != nil {
		t.Fatal(err)
	}
	if err := st.PutRun(testRun("x", base.Add(time.Hour))); err != nil {
		t.Fatal(err)
	}

	runs, err := st.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected overwritten run to appear once, got %d", len(runs))
	}

	if err := st.DeleteRun("x"); err != nil {
		t.Fatal(err)
	}
	if err := st.DeleteRun("x"); err != nil {
		t.Errorf("deleting a missing run should be a no-op, got %v", err)
	}
	runs, err = st.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestBoltStore_MigrateFromV1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	// a v1 database has runs but no time index.
	st, err := NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	err = st.DB().Update(func(tx *bbolt.Tx) error {
		data, _ := json.Marshal(testRun("old", time.Unix(500, 0).UTC()))
		if err := tx.Bucket(bucketRuns).Put([]byte("old"), data); err != nil {
			return err
		}
		v, _ := json.Marshal(1)
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, v)
	})
	if err != nil {
		t.Fatal(err)
	}

	result, err := st.CheckMigration()
	if err != nil {
		t.Fatal(err)
	}
	if !result.NeedsMigration || result.OldVersion != 1 {
		t.Errorf("expected migration from v1, got %+v", result)
	}
	if _, err := st.ListRuns(); err == nil {
		t.Error("expected ListRuns to fail before migration")
	}
	st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "old" {
		t.Errorf("expected migrated run, got %+v", runs)
	}

	version, err := st.GetSchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("expected version %d, got %d", CurrentSchemaVersion, version)
	}
}

func TestBoltStore_NewerVersionIsCleared(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	st, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"r1", "r2", "r3"} {
		if err := st.PutRun(testRun(id, time.Unix(1000, 0).UTC())); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.setSchemaVersion(CurrentSchemaVersion + 1); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected history cleared, got %d runs", len(runs))
	}
}
