// Package ledger is the durable record of which source files have been fully
// ingested. Membership means the file was downloaded, transformed, submitted
// (or determined not to need submission) and retired; the orchestrator adds a
// name strictly after a positive verdict and never before.
package ledger

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

// Store persists the processed-file set and small config values.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Has reports whether fileName has already been fully ingested.
func (s *Store) Has(fileName string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM processed_files WHERE file_name = ?", fileName,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("ledger has %s: %w", fileName, err)
	}
	return count > 0, nil
}

// Add records fileName as fully ingested. Adding an existing name is a no-op
// (dedup is by name, not occurrence count); the return value reports whether
// the name was new.
func (s *Store) Add(fileName string) (bool, error) {
	if fileName == "" {
		return false, fmt.Errorf("ledger add: empty file name")
	}
	res, err := s.db.Exec(
		"INSERT OR IGNORE INTO processed_files (file_name, processed_at) VALUES (?, ?)",
		fileName, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("ledger add %s: %w", fileName, err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Printf("[ledger] Marked %s processed", fileName)
	}
	return n > 0, nil
}

// Remove drops one name from the ledger (the file becomes eligible again).
func (s *Store) Remove(fileName string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM processed_files WHERE file_name = ?", fileName)
	if err != nil {
		return false, fmt.Errorf("ledger remove %s: %w", fileName, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Clear wipes the entire processed-file set and returns how many names were
// removed. Every remote file becomes eligible for reprocessing.
func (s *Store) Clear() (int, error) {
	res, err := s.db.Exec("DELETE FROM processed_files")
	if err != nil {
		return 0, fmt.Errorf("ledger clear: %w", err)
	}
	n, _ := res.RowsAffected()
	log.Printf("[ledger] Cleared %d processed files", n)
	return int(n), nil
}

// All returns every processed file name, oldest first.
func (s *Store) All() ([]string, error) {
	rows, err := s.db.Query("SELECT file_name FROM processed_files ORDER BY processed_at, file_name")
	if err != nil {
		return nil, fmt.Errorf("ledger list: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ledger scan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Count returns the number of processed files.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM processed_files").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ledger count: %w", err)
	}
	return count, nil
}

// --- settings: small durable key/value config ---

// GetSetting returns the stored value for key, or def when absent.
func (s *Store) GetSetting(key, def string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("setting get %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores value under key, replacing any previous value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("setting set %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes key.
func (s *Store) DeleteSetting(key string) error {
	if _, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("setting delete %s: %w", key, err)
	}
	return nil
}
