package postgres

import (
	"context"
	"database/sql"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentSelect = `
	SELECT d.id, d.owner_id, u.username, d.title, d.department, d.filename,
	       d.storage_path, d.size, d.content_type, d.uploaded_at
	FROM documents d
	JOIN users u ON u.id = d.owner_id
`

// Create inserts a new document row and returns the stored record.
// The owner display name is carried over from the input since RETURNING
// cannot reach the users table.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, owner_id, title, department, filename, storage_path, size, content_type, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, owner_id, title, department, filename, storage_path, size, content_type, uploaded_at
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.OwnerID,
		doc.Title,
		doc.Department,
		doc.Filename,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.UploadedAt,
	)
	var out model.Document
	if err := row.Scan(
		&out.ID,
		&out.OwnerID,
		&out.Title,
		&out.Department,
		&out.Filename,
		&out.StoragePath,
		&out.Size,
		&out.ContentType,
		&out.UploadedAt,
	); err != nil {
		return nil, err
	}
	out.OwnerName = doc.OwnerName
	return &out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	row := r.db.QueryRowContext(ctx, documentSelect+` WHERE d.id = $1`, id)
	var d model.Document
	if err := scanDocument(row.Scan, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListAll returns every document, newest upload first.
func (r *DocumentPostgres) ListAll(ctx context.Context) ([]model.Document, error) {
	return r.list(ctx, documentSelect+` ORDER BY d.uploaded_at DESC, d.id DESC`)
}

// ListByOwner returns the documents owned by ownerID, newest upload first.
func (r *DocumentPostgres) ListByOwner(ctx context.Context, ownerID string) ([]model.Document, error) {
	return r.list(ctx, documentSelect+` WHERE d.owner_id = $1 ORDER BY d.uploaded_at DESC, d.id DESC`, ownerID)
}

func (r *DocumentPostgres) list(ctx context.Context, query string, args ...any) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := scanDocument(rows.Scan, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a document by ID. Signature rows are removed by the
// ON DELETE CASCADE constraint in the same statement, so no orphaned
// signature can survive the delete.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

func scanDocument(scan func(dest ...any) error, d *model.Document) error {
	return scan(
		&d.ID,
		&d.OwnerID,
		&d.OwnerName,
		&d.Title,
		&d.Department,
		&d.Filename,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.UploadedAt,
	)
}
