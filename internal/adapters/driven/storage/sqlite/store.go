package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/scandoc-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is the SQLite-backed document store. It is the single writer of
// document, image, and index state.
type Store struct {
	db       *sql.DB
	path     string
	notifier *notifier
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.scandoc/data/documents.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scandoc", "data")
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

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		notifier: newNotifier(),
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

	// Sort and run migrations
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

		// Read and execute migration
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

// ==================== Mutations ====================

// Insert creates a document with status PENDING and an empty summary.
func (s *Store) Insert(ctx context.Context, title, sourceText string) (int64, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents (title, source_text, summary_text, summary_status, created_at, updated_at)
		VALUES (?, ?, '', ?, ?, ?)
	`, title, sourceText, string(domain.StatusPending), now, now)
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}

	if err := reindexTx(ctx, tx, id); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	s.notifier.publish(id)
	return id, nil
}

// AttachImages replaces all images of a document with the given set.
func (s *Store) AttachImages(ctx context.Context, documentID int64, images []domain.DocumentImage) error {
	seen := make(map[int]bool, len(images))
	for _, img := range images {
		if seen[img.Position] {
			return fmt.Errorf("position %d: %w", img.Position, domain.ErrDuplicatePosition)
		}
		seen[img.Position] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE id = ?", documentID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking document: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM document_images WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing images: %w", err)
	}

	for _, img := range images {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO document_images (document_id, position, image_uri, thumbnail)
			VALUES (?, ?, ?, ?)
		`, documentID, img.Position, img.ImageURI, img.Thumbnail)
		if err != nil {
			return fmt.Errorf("inserting image at position %d: %w", img.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.notifier.publish(documentID)
	return nil
}

// UpdateSummary atomically writes summary text, status, and updatedAt, and
// reindexes the document in the same transaction.
func (s *Store) UpdateSummary(
	ctx context.Context,
	id int64,
	summary string,
	status domain.SummaryStatus,
	updatedAt time.Time,
) error {
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE documents SET summary_text = ?, summary_status = ?, updated_at = ?
		WHERE id = ?
	`, summary, string(status), updatedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("updating summary: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if err := reindexTx(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.notifier.publish(id)
	return nil
}

// Delete removes the document, its images, and its index entry in one
// transaction: all three complete or none do.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM document_images WHERE document_id = ?", id); err != nil {
		return fmt.Errorf("deleting images: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents_fts WHERE rowid = ?", id); err != nil {
		return fmt.Errorf("deleting index entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.notifier.publish(id)
	return nil
}

// reindexTx refreshes the document's FTS row from the documents table.
// A deleted document simply drops out: the insert-select matches no row.
func reindexTx(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents_fts WHERE rowid = ?", id); err != nil {
		return fmt.Errorf("clearing index entry: %w", err)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO documents_fts (rowid, title, source_text, summary_text)
		SELECT id, title, source_text, summary_text FROM documents WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("reindexing document: %w", err)
	}
	return nil
}

// ==================== Queries ====================

// GetDocument retrieves a document by id.
func (s *Store) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, source_text, summary_text, summary_status, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// GetDocumentWithImages retrieves a document and its images in position order.
func (s *Store) GetDocumentWithImages(ctx context.Context, id int64) (*domain.DocumentWithImages, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT image_id, document_id, position, image_uri, thumbnail
		FROM document_images WHERE document_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer rows.Close()

	var images []domain.DocumentImage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var img domain.DocumentImage
		if err := rows.Scan(&img.ImageID, &img.DocumentID, &img.Position, &img.ImageURI, &img.Thumbnail); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating images: %w", err)
	}

	return &domain.DocumentWithImages{Document: *doc, Images: images}, nil
}

// listItemSelect joins each document with its cover (position 0) image.
const listItemSelect = `
	SELECT d.id, d.title, d.source_text, d.summary_text, d.summary_status, d.created_at, d.updated_at,
	       (SELECT image_uri FROM document_images di WHERE di.document_id = d.id ORDER BY di.position ASC LIMIT 1),
	       (SELECT thumbnail FROM document_images di WHERE di.document_id = d.id ORDER BY di.position ASC LIMIT 1)
	  FROM documents d
`

// ListAll returns every document with its cover image, newest first.
func (s *Store) ListAll(ctx context.Context) ([]domain.DocumentListItem, error) {
	rows, err := s.db.QueryContext(ctx, listItemSelect+" ORDER BY d.created_at DESC, d.id DESC")
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	return scanListItems(rows)
}

// Search runs a prefix-match boolean-AND full-text query.
// An empty query matches everything.
func (s *Store) Search(ctx context.Context, query string) ([]domain.DocumentListItem, error) {
	match := buildMatchQuery(query)
	if match == "" {
		return s.ListAll(ctx)
	}

	rows, err := s.db.QueryContext(ctx, listItemSelect+`
		  JOIN documents_fts f ON d.id = f.rowid
		 WHERE documents_fts MATCH ?
		 ORDER BY d.created_at DESC, d.id DESC
	`, match)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	return scanListItems(rows)
}

// buildMatchQuery turns whitespace-separated terms into an FTS5 query of
// ANDed prefix clauses: `invoice march` becomes `"invoice"* AND "march"*`.
// Returns "" for a blank input.
func buildMatchQuery(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}

	clauses := make([]string, len(terms))
	for i, term := range terms {
		// Quote each term so punctuation can't break FTS5 syntax.
		clauses[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"*`
	}
	return strings.Join(clauses, " AND ")
}

// ==================== Scan helpers ====================

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var status string
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&doc.ID, &doc.Title, &doc.SourceText, &doc.SummaryText,
		&status, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Status = domain.SummaryStatus(status)
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}

	return &doc, nil
}

// scanListItems scans document rows decorated with cover columns.
func scanListItems(rows *sql.Rows) ([]domain.DocumentListItem, error) {
	var items []domain.DocumentListItem //nolint:prealloc // size unknown from query
	for rows.Next() {
		var item domain.DocumentListItem
		var status string
		var createdAt, updatedAt sql.NullTime
		var coverURI sql.NullString

		if err := rows.Scan(&item.Document.ID, &item.Document.Title, &item.Document.SourceText,
			&item.Document.SummaryText, &status, &createdAt, &updatedAt,
			&coverURI, &item.CoverThumb); err != nil {
			return nil, fmt.Errorf("scanning list item: %w", err)
		}

		item.Document.Status = domain.SummaryStatus(status)
		if createdAt.Valid {
			item.Document.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			item.Document.UpdatedAt = updatedAt.Time
		}
		item.CoverURI = coverURI.String
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating list items: %w", err)
	}

	return items, nil
}
