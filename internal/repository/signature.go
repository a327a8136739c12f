package repository

import (
	"context"

	"docvault/internal/model"
)

// SignatureRepository defines data access for the append-only signature
// ledger. There is deliberately no update or delete operation: signatures are
// only ever inserted, and removal happens solely through the document cascade.
type SignatureRepository interface {
	// Create appends a signature. The database's unique (document_id, user_id)
	// index is the authoritative one-signature-per-pair guard: a duplicate
	// insert maps to ErrDuplicateSignature, a dead document foreign key to
	// ErrDocumentGone.
	Create(ctx context.Context, sig *model.Signature) (*model.Signature, error)

	// ListByDocument returns a document's signatures in insertion order.
	ListByDocument(ctx context.Context, documentID string) ([]model.Signature, error)

	// ListByDocuments returns signatures for all given documents keyed by
	// document ID, each slice in insertion order.
	ListByDocuments(ctx context.Context, documentIDs []string) (map[string][]model.Signature, error)
}
