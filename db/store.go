package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"book-companion/llm"
)

// maxEntries bounds the history: the store keeps the 20 most recent entries
// and evicts from the front, oldest first.
const maxEntries = 20

// Store persists completed conversations. Conversations are stored as a JSON
// column, so a tampered row degrades to a skipped entry rather than anything
// executable. All methods are safe on a nil *Store and degrade to no-ops, so
// a store that failed to open never interrupts the main flow.
type Store struct {
	mu   sync.Mutex
	conn *sql.DB
}

// Open creates the history store at the given path, creating the directory
// and schema as needed.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	store := &Store{conn: conn}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			rendered_text TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			conversation TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.conn.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Append adds an entry to the end of the history, then evicts the oldest
// entries beyond the cap.
func (s *Store) Append(entry HistoryEntry) error {
	if s == nil || s.conn == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, err := json.Marshal(entry.Conversation)
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}

	_, err = s.conn.Exec(
		"INSERT INTO history (title, rendered_text, created_at, conversation) VALUES (?, ?, ?, ?)",
		entry.Title, entry.RenderedText, entry.CreatedAt, string(conversation),
	)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	_, err = s.conn.Exec(`
		DELETE FROM history
		WHERE id NOT IN (
			SELECT id FROM history
			ORDER BY id DESC
			LIMIT ?
		)
	`, maxEntries)
	if err != nil {
		return fmt.Errorf("failed to evict old history entries: %w", err)
	}

	return nil
}

// RemoveAt deletes the entry at the given position, counting from the oldest
// entry at index 0.
func (s *Store) RemoveAt(index int) error {
	if s == nil || s.conn == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.conn.QueryRow(
		"SELECT id FROM history ORDER BY id LIMIT 1 OFFSET ?", index,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("history index %d out of range", index)
	}
	if err != nil {
		return fmt.Errorf("failed to locate history entry: %w", err)
	}

	if _, err := s.conn.Exec("DELETE FROM history WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to remove history entry: %w", err)
	}
	return nil
}

// LoadAll returns every stored entry, oldest first. Rows whose conversation
// column fails to decode are skipped.
func (s *Store) LoadAll() ([]HistoryEntry, error) {
	if s == nil || s.conn == nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.Query(
		"SELECT id, title, rendered_text, created_at, conversation FROM history ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var conversation string
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.RenderedText, &entry.CreatedAt, &conversation); err != nil {
			return entries, fmt.Errorf("failed to scan history entry: %w", err)
		}
		messages, err := decodeConversation([]byte(conversation))
		if err != nil {
			continue
		}
		entry.Conversation = messages
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// storedMessage tolerates content of any shape; older stores and imported
// histories may carry structured multi-part content instead of a string.
type storedMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// decodeConversation decodes a conversation column, flattening each
// message's content to a plain string.
func decodeConversation(data []byte) ([]llm.Message, error) {
	var stored []storedMessage
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	messages := make([]llm.Message, len(stored))
	for i, msg := range stored {
		messages[i] = llm.Message{Role: msg.Role, Content: llm.FlattenContent(msg.Content)}
	}
	return messages, nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	if s == nil || s.conn == nil {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM history").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history entries: %w", err)
	}
	return count, nil
}
