package pagebuilder

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pagebuilder/builder"
	"github.com/eringen/pagebuilder/sanitize"
)

// ErrTitleRequired is returned when a template title is empty once markup is
// stripped.
var ErrTitleRequired = errors.New("pagebuilder: template title is required")

// Store wraps a SQLite database holding content entries and their
// key/value meta. Templates are entries of kind "template"; their blocks are
// meta rows.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the front end read while the admin saves; busy_timeout makes
	// a writer wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_kind_title ON entries(kind, title);

CREATE TABLE IF NOT EXISTS entry_meta (
    meta_id INTEGER PRIMARY KEY AUTOINCREMENT,
    entry_id INTEGER NOT NULL,
    meta_key TEXT NOT NULL,
    meta_value BLOB NOT NULL,
    UNIQUE (entry_id, meta_key)
);
`)
	return err
}

// CreateEntry inserts a content entry of any kind and returns its id. Entries
// that are not templates share the table (and the id space) with templates;
// sites use it for their own content, and the engine rejects such ids.
func (s *Store) CreateEntry(ctx context.Context, kind, title, status string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (kind, title, status, created_at) VALUES (?, ?, ?, ?)`,
		kind, title, status, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CreateTemplate creates a published template. Markup is stripped from the
// title, and a title already used by another template, whatever its status,
// yields builder.ErrDuplicateTitle.
func (s *Store) CreateTemplate(ctx context.Context, title string) (int64, error) {
	title = strings.TrimSpace(sanitize.StripTags(title))
	if title == "" {
		return 0, ErrTitleRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM entries WHERE kind = ? AND title = ? LIMIT 1`, builder.KindTemplate, title).Scan(&exists)
	if err == nil {
		return 0, builder.ErrDuplicateTitle
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO entries (kind, title, status, created_at) VALUES (?, ?, ?, ?)`,
		builder.KindTemplate, title, builder.StatusPublished, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// RenameTemplate sets the title of entry id. Markup is stripped; a title that
// ends up empty leaves the current one in place.
func (s *Store) RenameTemplate(ctx context.Context, id int64, title string) error {
	title = strings.TrimSpace(sanitize.StripTags(title))
	if title == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `UPDATE entries SET title = ? WHERE id = ?`, title, id)
	return err
}

// DeleteTemplate removes entry id. A hard delete drops the entry and all its
// meta; otherwise the entry is moved to the "trash" status.
func (s *Store) DeleteTemplate(ctx context.Context, id int64, hard bool) error {
	if !hard {
		_, err := s.db.ExecContext(ctx, `UPDATE entries SET status = 'trash' WHERE id = ?`, id)
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_meta WHERE entry_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// GetTemplate returns entry id whatever its kind or status; callers decide
// whether it is usable. A missing entry yields builder.ErrNotFound.
func (s *Store) GetTemplate(ctx context.Context, id int64) (builder.Template, error) {
	t := builder.Template{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT kind, title, status FROM entries WHERE id = ?`, id).
		Scan(&t.Kind, &t.Title, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return builder.Template{}, builder.ErrNotFound
	}
	if err != nil {
		return builder.Template{}, err
	}
	return t, nil
}

// ListTemplates returns published templates ordered by title.
func (s *Store) ListTemplates(ctx context.Context) ([]builder.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, title, status FROM entries WHERE kind = ? AND status = ? ORDER BY title ASC, id ASC`,
		builder.KindTemplate, builder.StatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []builder.Template
	for rows.Next() {
		var t builder.Template
		if err := rows.Scan(&t.ID, &t.Kind, &t.Title, &t.Status); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Blocks returns the key/value meta of entries as a builder.BlockStore.
func (s *Store) Blocks() builder.BlockStore {
	return metaTable{db: s.db}
}

// metaTable implements builder.BlockStore over entry_meta. Storage order is
// the order in which keys were first written; updating a key keeps its
// position.
type metaTable struct {
	db *sql.DB
}

func (m metaTable) GetAll(ctx context.Context, id int64) ([]builder.Meta, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT meta_key, meta_value FROM entry_meta WHERE entry_id = ? ORDER BY meta_id ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []builder.Meta
	for rows.Next() {
		var meta builder.Meta
		if err := rows.Scan(&meta.Key, &meta.Value); err != nil {
			return nil, err
		}
		all = append(all, meta)
	}
	return all, rows.Err()
}

func (m metaTable) Get(ctx context.Context, id int64, key string) ([]byte, bool, error) {
	var value []byte
	err := m.db.QueryRowContext(ctx, `SELECT meta_value FROM entry_meta WHERE entry_id = ? AND meta_key = ?`, id, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (m metaTable) Set(ctx context.Context, id int64, key string, value []byte) error {
	_, err := m.db.ExecContext(ctx, `
INSERT INTO entry_meta (entry_id, meta_key, meta_value) VALUES (?, ?, ?)
ON CONFLICT (entry_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`,
		id, key, value)
	return err
}

func (m metaTable) Delete(ctx context.Context, id int64, key string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM entry_meta WHERE entry_id = ? AND meta_key = ?`, id, key)
	return err
}
