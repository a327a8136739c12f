package postgres

import (
	"context"
	"database/sql"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// SignaturePostgres is a PostgreSQL implementation of repository.SignatureRepository.
// The one-signature-per-(document, user) invariant lives in the database as a
// unique index, so two racing inserts resolve atomically: the second writer
// gets ErrDuplicateSignature, never a second row.
type SignaturePostgres struct {
	db *sql.DB
}

// NewSignaturePostgres creates a new SignaturePostgres repository.
func NewSignaturePostgres(db *sql.DB) *SignaturePostgres {
	return &SignaturePostgres{db: db}
}

var _ repository.SignatureRepository = (*SignaturePostgres)(nil)

const signatureSelect = `
	SELECT s.id, s.document_id, s.user_id, u.username, s.signed_at
	FROM signatures s
	JOIN users u ON u.id = s.user_id
`

// Create appends a signature row, translating constraint violations.
func (r *SignaturePostgres) Create(ctx context.Context, sig *model.Signature) (*model.Signature, error) {
	const q = `
		INSERT INTO signatures (id, document_id, user_id, signed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, document_id, user_id, signed_at
	`
	row := r.db.QueryRowContext(ctx, q,
		sig.ID,
		sig.DocumentID,
		sig.UserID,
		sig.SignedAt,
	)
	var out model.Signature
	if err := row.Scan(
		&out.ID,
		&out.DocumentID,
		&out.UserID,
		&out.SignedAt,
	); err != nil {
		if _, ok := constraintViolation(err, codeUniqueViolation); ok {
			return nil, repository.ErrDuplicateSignature
		}
		if constraint, ok := constraintViolation(err, codeForeignKeyViolation); ok && constraint == "signatures_document_id_fkey" {
			return nil, repository.ErrDocumentGone
		}
		return nil, err
	}
	out.UserName = sig.UserName
	return &out, nil
}

// ListByDocument returns a document's signatures in insertion order.
func (r *SignaturePostgres) ListByDocument(ctx context.Context, documentID string) ([]model.Signature, error) {
	rows, err := r.db.QueryContext(ctx, signatureSelect+` WHERE s.document_id = $1 ORDER BY s.signed_at ASC, s.id ASC`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSignatures(rows)
}

// ListByDocuments returns signatures for all given documents keyed by
// document ID. An empty input yields an empty map without touching the DB.
func (r *SignaturePostgres) ListByDocuments(ctx context.Context, documentIDs []string) (map[string][]model.Signature, error) {
	grouped := make(map[string][]model.Signature)
	if len(documentIDs) == 0 {
		return grouped, nil
	}

	rows, err := r.db.QueryContext(ctx, signatureSelect+` WHERE s.document_id = ANY($1) ORDER BY s.signed_at ASC, s.id ASC`, documentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sigs, err := collectSignatures(rows)
	if err != nil {
		return nil, err
	}
	for _, s := range sigs {
		grouped[s.DocumentID] = append(grouped[s.DocumentID], s)
	}
	return grouped, nil
}

func collectSignatures(rows *sql.Rows) ([]model.Signature, error) {
	items := make([]model.Signature, 0)
	for rows.Next() {
		var s model.Signature
		if err := rows.Scan(
			&s.ID,
			&s.DocumentID,
			&s.UserID,
			&s.UserName,
			&s.SignedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
