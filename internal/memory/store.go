package memory

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sageline/sage/internal/db"
	"github.com/sageline/sage/internal/journal"
)

// Store provides read/write access to the memories table.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given DB.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Insert persists a new memory and returns it with its generated ID and
// creation time filled in.
func (s *Store) Insert(userID, content string, tag Tag) (Memory, error) {
	if content == "" {
		return Memory{}, fmt.Errorf("store: empty memory content: %w", journal.ErrInvalid)
	}
	if !ValidTag(tag) {
		return Memory{}, fmt.Errorf("store: invalid tag %q: %w", tag, journal.ErrInvalid)
	}

	m := Memory{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		Tag:       tag,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Conn().Exec(`
		INSERT INTO memories (memory_id, user_id, content, tag, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Content, string(m.Tag), m.CreatedAt.Format(db.TimeLayout),
	)
	if err != nil {
		return Memory{}, fmt.Errorf("store: insert memory: %w", err)
	}
	return m, nil
}

// Get returns a single memory by ID.
func (s *Store) Get(id string) (Memory, error) {
	var m Memory
	var tag, createdAt string
	err := s.db.Conn().QueryRow(
		`SELECT memory_id, user_id, content, tag, created_at FROM memories WHERE memory_id = ?`, id,
	).Scan(&m.ID, &m.UserID, &m.Content, &tag, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return m, fmt.Errorf("store: memory %q: %w", id, journal.ErrNotFound)
	}
	if err != nil {
		return m, fmt.Errorf("store: get memory: %w", err)
	}
	m.Tag = Tag(tag)
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

// GetMany returns the memories for the given IDs, keyed by ID. Unknown IDs
// are silently skipped so vector matches with stale embeddings do not fail
// the whole search.
func (s *Store) GetMany(ids []string) (map[string]Memory, error) {
	out := make(map[string]Memory, len(ids))
	for _, id := range ids {
		m, err := s.Get(id)
		if errors.Is(err, journal.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = m
	}
	return out, nil
}

// List returns a user's memories newest first, optionally filtered by tag.
// Pass an empty tag for all tags.
func (s *Store) List(userID string, filter Tag) ([]Memory, error) {
	var rows *sql.Rows
	var err error

	if filter == "" {
		rows, err = s.db.Conn().Query(
			`SELECT memory_id, user_id, content, tag, created_at FROM memories
			 WHERE user_id = ? ORDER BY created_at DESC`, userID,
		)
	} else {
		rows, err = s.db.Conn().Query(
			`SELECT memory_id, user_id, content, tag, created_at FROM memories
			 WHERE user_id = ? AND tag = ? ORDER BY created_at DESC`, userID, string(filter),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("store: list memories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanMemories(rows)
}

// Delete removes a memory by ID.
func (s *Store) Delete(id string) error {
	res, err := s.db.Conn().Exec(`DELETE FROM memories WHERE memory_id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete memory: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("store: memory %q: %w", id, journal.ErrNotFound)
	}
	return nil
}

// CountByTag returns a count per tag for a user.
func (s *Store) CountByTag(userID string) (map[Tag]int, error) {
	rows, err := s.db.Conn().Query(
		`SELECT tag, COUNT(*) FROM memories WHERE user_id = ? GROUP BY tag`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: count memories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[Tag]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[Tag(t)] = n
	}
	return counts, rows.Err()
}

// ---- Helpers ----

func scanMemories(rows *sql.Rows) ([]Memory, error) {
	var out []Memory
	for rows.Next() {
		var m Memory
		var tag, createdAt string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &tag, &createdAt); err != nil {
			return nil, err
		}
		m.Tag = Tag(tag)
		m.CreatedAt = parseTime(createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

// parseTime delegates to the shared layout list in internal/db.
func parseTime(s string) time.Time {
	return db.ParseTime(s)
}
