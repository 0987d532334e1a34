package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/samiksha-labs/samiksha/internal/domain/model"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	language    TEXT NOT NULL DEFAULT 'EN',
	uploaded_at TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS results (
	document_id   TEXT PRIMARY KEY REFERENCES documents(id) ON DELETE CASCADE,
	payload       TEXT NOT NULL,
	processing_ms REAL NOT NULL,
	processed_at  TEXT NOT NULL
);
`

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithPath sets the database location. ":memory:" keeps the store in
// process.
func WithPath(path string) Option {
	return func(s *SQLiteStore) {
		if path != "" {
			s.path = path
		}
	}
}

// SQLiteStore implements Store on a SQLite database. database/sql serializes
// access through its pool, so the store is safe for concurrent workers.
type SQLiteStore struct {
	path string

	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// NewSQLiteStore opens the database and bootstraps the schema.
func NewSQLiteStore(ctx context.Context, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{path: "samiksha.db"}
	for _, opt := range opts {
		opt(s)
	}

	db, err := openDB("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open results store: %w", err)
	}
	// SQLite allows a single writer; one pooled connection also keeps
	// ":memory:" databases from splitting per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap results schema: %w", err)
	}
	s.db = db
	return s, nil
}

// RegisterDocument inserts or resets a document in StatusUploaded.
func (s *SQLiteStore) RegisterDocument(ctx context.Context, doc model.Document) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, language, uploaded_at, status, error)
		VALUES (?, ?, ?, ?, ?, '')
		ON CONFLICT(id) DO UPDATE SET
			filename    = excluded.filename,
			language    = excluded.language,
			uploaded_at = excluded.uploaded_at,
			status      = excluded.status,
			error       = ''`,
		doc.ID, doc.Filename, doc.Language,
		doc.UploadedAt.UTC().Format(time.RFC3339Nano), string(model.StatusUploaded),
	)
	if err != nil {
		return fmt.Errorf("register document %s: %w", doc.ID, err)
	}
	return nil
}

// Document returns the stored record for id.
func (s *SQLiteStore) Document(ctx context.Context, id string) (DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return DocumentRecord{}, ErrClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, language, uploaded_at, status, error
		FROM documents WHERE id = ?`, id)

	var (
		rec        DocumentRecord
		uploadedAt string
		status     string
	)
	err := row.Scan(&rec.ID, &rec.Filename, &rec.Language, &uploadedAt, &status, &rec.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return DocumentRecord{}, ErrNotFound
	}
	if err != nil {
		return DocumentRecord{}, fmt.Errorf("load document %s: %w", id, err)
	}
	rec.Status = model.DocumentStatus(status)
	if ts, perr := time.Parse(time.RFC3339Nano, uploadedAt); perr == nil {
		rec.UploadedAt = ts
	}
	return rec, nil
}

// ListDocuments returns every stored record, newest upload first.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, language, uploaded_at, status, error
		FROM documents ORDER BY uploaded_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRecord
	for rows.Next() {
		var (
			rec        DocumentRecord
			uploadedAt string
			status     string
		)
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.Language, &uploadedAt, &status, &rec.Error); err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		rec.Status = model.DocumentStatus(status)
		if ts, perr := time.Parse(time.RFC3339Nano, uploadedAt); perr == nil {
			rec.UploadedAt = ts
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

// SetStatus transitions a document's lifecycle status.
func (s *SQLiteStore) SetStatus(ctx context.Context, id string, status model.DocumentStatus, message string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, error = ? WHERE id = ?`,
		string(status), message, id)
	if err != nil {
		return fmt.Errorf("set status for %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveResult persists a completed analysis, overwriting any prior result.
func (s *SQLiteStore) SaveResult(ctx context.Context, result *model.ProcessingResult, elapsed time.Duration) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result for %s: %w", result.DocumentID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (document_id, payload, processing_ms, processed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			payload       = excluded.payload,
			processing_ms = excluded.processing_ms,
			processed_at  = excluded.processed_at`,
		result.DocumentID, string(payload),
		float64(elapsed.Microseconds())/1000.0,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save result for %s: %w", result.DocumentID, err)
	}
	return nil
}

// Result returns the persisted result for id.
func (s *SQLiteStore) Result(ctx context.Context, id string) (*model.ProcessingResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM results WHERE document_id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load result for %s: %w", id, err)
	}

	var result model.ProcessingResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode result for %s: %w", id, err)
	}
	return &result, nil
}

// Count returns the number of tracked documents.
func (s *SQLiteStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close results store: %w", err)
	}
	return nil
}
