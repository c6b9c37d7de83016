package storage

import (
	"database/sql"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// SQLiteStore keeps blobs in the kv_entries table created by db.ApplyMigrations.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "get %q", key)
	}
	return []byte(value), true, nil
}

const upsertSQL = `
INSERT INTO kv_entries(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`

func (s *SQLiteStore) Set(key string, value []byte) error {
	if _, err := s.db.Exec(upsertSQL, key, string(value)); err != nil {
		return errors.Wrapf(err, "set %q", key)
	}
	return nil
}

// SetMany upserts every value in a single transaction.
func (s *SQLiteStore) SetMany(values map[string][]byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin batch")
	}
	stmt, err := tx.Prepare(upsertSQL)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "prepare batch")
	}
	defer stmt.Close()
	for _, k := range sortedKeys(values) {
		if _, err := stmt.Exec(k, string(values[k])); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "set %q", k)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit batch")
	}
	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return errors.Wrapf(err, "delete %q", key)
	}
	return nil
}

func (s *SQLiteStore) Keys(prefix string) ([]string, error) {
	// substr counts characters, not bytes.
	rows, err := s.db.Query(`SELECT key FROM kv_entries WHERE substr(key, 1, ?) = ? ORDER BY key ASC`, utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "list keys %q", prefix)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.Wrap(err, "scan key")
		}
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate keys")
	}
	return keys, nil
}
