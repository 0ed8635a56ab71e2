package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (s *Store) GetPreference(key string) (string, bool, error) {
	if s.db == nil {
		return "", false, errors.New("database not open")
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) SetPreference(key, value string) error {
	if s.db == nil {
		return errors.New("database not open")
	}

	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}

func (s *Store) DeletePreference(key string) error {
	if s.db == nil {
		return errors.New("database not open")
	}
	if _, err := s.db.Exec("DELETE FROM preferences WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}
