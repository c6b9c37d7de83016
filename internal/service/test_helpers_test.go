package service_test

import (
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ADILE66/OptilifeAI-sub001/internal/db"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
	"github.com/ADILE66/OptilifeAI-sub001/internal/storage"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "optilife.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	return sqldb
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testStart = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

// newTracker loads userID on store with a fake clock starting at testStart.
func newTracker(t *testing.T, store storage.Store, userID string, opts ...service.Option) (*service.Tracker, *fakeClock) {
	t.Helper()
	clock := newClock(testStart)
	opts = append([]service.Option{service.WithClock(clock.Now)}, opts...)
	tr := service.NewTracker(store, opts...)
	if err := tr.Reset(userID); err != nil {
		t.Fatalf("reset tracker: %v", err)
	}
	return tr, clock
}

var errDiskFull = errors.New("disk full")

// failingStore rejects every write while failing is set, and writes that
// touch failKey otherwise.
type failingStore struct {
	*storage.MemoryStore
	mu      sync.Mutex
	failing bool
	failKey string
}

func newFailingStore() *failingStore {
	return &failingStore{MemoryStore: storage.NewMemoryStore()}
}

func (f *failingStore) SetFailing(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = v
}

func (f *failingStore) FailKey(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failKey = key
}

func (f *failingStore) rejects(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failing || (f.failKey != "" && key == f.failKey)
}

func (f *failingStore) Set(key string, value []byte) error {
	if f.rejects(key) {
		return errDiskFull
	}
	return f.MemoryStore.Set(key, value)
}

func (f *failingStore) SetMany(values map[string][]byte) error {
	for key := range values {
		if f.rejects(key) {
			return errDiskFull
		}
	}
	return f.MemoryStore.SetMany(values)
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
