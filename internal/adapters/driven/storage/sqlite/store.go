package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/doclens/doclens-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/doclens/doclens-cli/internal/core/domain"
	"github.com/doclens/doclens-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a SQLite-backed document store.
type Store struct {
	db         *sql.DB
	path       string
	dimensions int
}

// NewStore opens (or creates) the document database at the specified data
// directory. If dataDir is empty, defaults to ~/.doclens/data/documents.db.
// dimensions is the vector length the active model produces; blobs of any
// other length are treated as absent embeddings.
func NewStore(dataDir string, dimensions int) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("sqlite: dimensions must be positive, got %d", dimensions)
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".doclens", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "documents.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		dimensions: dimensions,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// validBlobLength is the byte length of a well-formed embedding blob.
func (s *Store) validBlobLength() int {
	return s.dimensions * 4
}

// SaveDocument stores or updates a document. The embedding columns are
// written as-is; use UpdateEmbedding for the validated embedding path.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	var embeddedAt any
	if !doc.EmbeddedAt.IsZero() {
		embeddedAt = doc.EmbeddedAt.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, embedding, embedding_model, embedded_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			embedding = excluded.embedding,
			embedding_model = excluded.embedding_model,
			embedded_at = excluded.embedded_at,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Title, doc.Content, float32SliceToBytes(doc.Embedding),
		doc.EmbeddingModel, embeddedAt, doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, embedding, embedding_model, embedded_at, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	return s.scanDocument(row)
}

// ListDocuments returns all documents without their content bodies.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, '', embedding, embedding_model, embedded_at, created_at, updated_at
		FROM documents ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	return s.collectDocuments(rows)
}

// DeleteDocument removes a document. Deleting an absent ID is a no-op.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListWithoutEmbedding returns up to limit documents that need embedding
// under the given model: no vector, a malformed vector, or a vector from a
// different model.
func (s *Store) ListWithoutEmbedding(ctx context.Context, model string, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		return []domain.Document{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, embedding, embedding_model, embedded_at, created_at, updated_at
		FROM documents
		WHERE embedding IS NULL
		   OR length(embedding) != ?
		   OR embedding_model != ?
		ORDER BY created_at
		LIMIT ?
	`, s.validBlobLength(), model, limit)
	if err != nil {
		return nil, fmt.Errorf("querying documents without embedding: %w", err)
	}
	defer rows.Close()

	return s.collectDocuments(rows)
}

// ListWithEmbedding returns every document carrying a well-formed vector.
func (s *Store) ListWithEmbedding(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, embedding, embedding_model, embedded_at, created_at, updated_at
		FROM documents
		WHERE embedding IS NOT NULL AND length(embedding) = ?
		ORDER BY created_at
	`, s.validBlobLength())
	if err != nil {
		return nil, fmt.Errorf("querying documents with embedding: %w", err)
	}
	defer rows.Close()

	return s.collectDocuments(rows)
}

// UpdateEmbedding writes a vector for a document.
func (s *Store) UpdateEmbedding(ctx context.Context, id string, vector []float32, model string, at time.Time) error {
	if len(vector) != s.dimensions {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(vector), s.dimensions)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET embedding = ?, embedding_model = ?, embedded_at = ?, updated_at = ?
		WHERE id = ?
	`, float32SliceToBytes(vector), model, at.UTC(), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating embedding: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountWithEmbedding returns the number of documents carrying a well-formed
// vector produced by the given model.
func (s *Store) CountWithEmbedding(ctx context.Context, model string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM documents
		WHERE embedding IS NOT NULL AND length(embedding) = ? AND embedding_model = ?
	`, s.validBlobLength(), model)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents with embedding: %w", err)
	}
	return count, nil
}

// CountWithoutEmbedding returns the number of documents that need embedding
// under the given model. Mirrors the ListWithoutEmbedding predicate.
func (s *Store) CountWithoutEmbedding(ctx context.Context, model string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM documents
		WHERE embedding IS NULL
		   OR length(embedding) != ?
		   OR embedding_model != ?
	`, s.validBlobLength(), model)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents without embedding: %w", err)
	}
	return count, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

// scanDocument scans a single document row.
func (s *Store) scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var embeddingBlob []byte
	var embeddedAt sql.NullTime
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &embeddingBlob,
		&doc.EmbeddingModel, &embeddedAt, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	// A blob of the wrong length is an absent embedding, never a valid one.
	if len(embeddingBlob) == s.validBlobLength() {
		doc.Embedding = bytesToFloat32Slice(embeddingBlob)
	} else {
		doc.EmbeddingModel = ""
	}
	if embeddedAt.Valid && doc.Embedding != nil {
		doc.EmbeddedAt = embeddedAt.Time
	}
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}

	return &doc, nil
}

// collectDocuments drains a result set.
func (s *Store) collectDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := s.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
