package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADILE66/OptilifeAI-sub001/internal/db"
	"github.com/ADILE66/OptilifeAI-sub001/internal/storage"
)

func newSQLiteStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	sqldb, err := db.Open(filepath.Join(t.TempDir(), "optilife.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })
	require.NoError(t, db.ApplyMigrations(sqldb))
	return storage.NewSQLiteStore(sqldb)
}

func TestStores_RoundTrip(t *testing.T) {
	stores := map[string]storage.Store{
		"memory": storage.NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("a/1", []byte(`{"x":1}`)))
			require.NoError(t, s.Set("a/2", []byte(`null`)))
			require.NoError(t, s.Set("b/1", []byte(`[]`)))
			require.NoError(t, s.Set("a/1", []byte(`{"x":2}`)))

			v, ok, err := s.Get("a/1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"x":2}`, string(v))

			keys, err := s.Keys("a/")
			require.NoError(t, err)
			assert.Equal(t, []string{"a/1", "a/2"}, keys)

			require.NoError(t, s.Delete("a/1"))
			_, ok, err = s.Get("a/1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestNamespace_IsolatesUsers(t *testing.T) {
	base := storage.NewMemoryStore()
	alice := storage.Namespace(base, "alice")
	bob := storage.Namespace(base, "bob")

	require.NoError(t, alice.Set("water", []byte(`[1]`)))
	require.NoError(t, bob.Set("water", []byte(`[2]`)))

	v, ok, err := alice.Get("water")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[1]`, string(v))

	keys, err := bob.Keys("")
	require.NoError(t, err)
	assert.Equal(t, []string{"water"}, keys)

	users, err := storage.Users(base)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, users)
}

func TestMemoryStore_ClosedRejectsAccess(t *testing.T) {
	s := storage.NewMemoryStore()
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Set("k", []byte(`1`)), storage.ErrClosed)
}

// plainStore hides the Batcher of the store it wraps.
type plainStore struct{ storage.Store }

func TestSetMany(t *testing.T) {
	stores := map[string]storage.Store{
		"memory":    storage.NewMemoryStore(),
		"sqlite":    newSQLiteStore(t),
		"namespace": storage.Namespace(newSQLiteStore(t), "alice"),
		"fallback":  plainStore{storage.NewMemoryStore()},
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set("water", []byte(`[]`)))
			require.NoError(t, storage.SetMany(s, map[string][]byte{
				"water": []byte(`[1]`),
				"food":  []byte(`[2]`),
			}))

			keys, err := s.Keys("")
			require.NoError(t, err)
			assert.Equal(t, []string{"food", "water"}, keys)
			v, ok, err := s.Get("water")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `[1]`, string(v))
		})
	}
}

func TestMemoryStore_SetManyClosed(t *testing.T) {
	s := storage.NewMemoryStore()
	require.NoError(t, s.Close())
	assert.ErrorIs(t, storage.SetMany(s, map[string][]byte{"k": []byte(`1`)}), storage.ErrClosed)
}

func TestStores_KeysWithMultibytePrefix(t *testing.T) {
	stores := map[string]storage.Store{
		"memory": storage.NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			zoe := storage.Namespace(s, "zoë")
			require.NoError(t, zoe.Set("water", []byte(`[]`)))
			require.NoError(t, zoe.Set("food", []byte(`[]`)))
			require.NoError(t, storage.Namespace(s, "zoëy").Set("water", []byte(`[]`)))

			keys, err := zoe.Keys("")
			require.NoError(t, err)
			assert.Equal(t, []string{"food", "water"}, keys)

			users, err := storage.Users(s)
			require.NoError(t, err)
			assert.Equal(t, []string{"zoë", "zoëy"}, users)
		})
	}
}
