package service

import (
	"database/sql"
	"fmt"
	"strings"
)

// Keys stored in app_config.
const (
	ConfigActiveUser    = "active_user"
	ConfigDefaultWindow = "default_window"
)

// ActiveUser returns the persisted active user id, or "" when none is set.
func ActiveUser(db *sql.DB) (string, error) {
	value, _, err := GetConfig(db, ConfigActiveUser)
	return value, err
}

func SetActiveUser(db *sql.DB, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if err := checkUserID(userID); err != nil {
		return err
	}
	return SetConfig(db, ConfigActiveUser, userID)
}

// checkUserID rejects ids that would escape their storage namespace.
func checkUserID(userID string) error {
	if strings.Contains(userID, "/") {
		return fmt.Errorf("%w: user id %q must not contain '/'", ErrInvalidInput, userID)
	}
	return nil
}

func SetConfig(db *sql.DB, key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	_, err := db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, bool, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "", false, fmt.Errorf("config key is required")
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}
