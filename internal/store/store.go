// Package store handles SQLite persistence of saved paragraphs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/readalong/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when no paragraph has the requested id.
var ErrNotFound = errors.New("paragraph not found")

// Store wraps SQLite access for the paragraph library.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS paragraphs (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			added_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_paragraphs_added_at ON paragraphs(added_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddParagraph saves a paragraph and returns its id. An empty title is
// replaced with the first words of the text.
func (s *Store) AddParagraph(ctx context.Context, title, text, difficulty string) (int64, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return 0, fmt.Errorf("paragraph text is empty")
	}
	if strings.TrimSpace(title) == "" {
		title = defaultTitle(text)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO paragraphs (title, body, difficulty, added_at) VALUES (?, ?, ?, ?)`,
		strings.TrimSpace(title),
		text,
		difficulty,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetParagraph loads one saved paragraph.
func (s *Store) GetParagraph(ctx context.Context, id int64) (model.LibraryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, body, difficulty, added_at FROM paragraphs WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LibraryEntry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return entry, err
}

// ListParagraphs returns saved paragraphs, oldest first.
func (s *Store) ListParagraphs(ctx context.Context) ([]model.LibraryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body, difficulty, added_at FROM paragraphs ORDER BY added_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.LibraryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteParagraph removes a saved paragraph.
func (s *Store) DeleteParagraph(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM paragraphs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (model.LibraryEntry, error) {
	var entry model.LibraryEntry
	var addedAt string
	if err := row.Scan(&entry.ID, &entry.Title, &entry.Text, &entry.Difficulty, &addedAt); err != nil {
		return model.LibraryEntry{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, addedAt)
	if err != nil {
		return model.LibraryEntry{}, err
	}
	entry.AddedAt = parsed
	return entry, nil
}

func defaultTitle(text string) string {
	words := strings.Fields(text)
	if len(words) > 5 {
		return strings.Join(words[:5], " ") + "..."
	}
	return strings.Join(words, " ")
}
