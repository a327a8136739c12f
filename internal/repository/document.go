package repository

import (
	"context"

	"docvault/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — list scoping decisions belong to the service/policy
// layer, which picks ListAll or ListByOwner.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document (with owner display name) by ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListAll returns every document, newest first.
	ListAll(ctx context.Context) ([]model.Document, error)

	// ListByOwner returns the documents owned by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Document, error)

	// Delete removes a document by ID; its signatures go with it via the
	// ON DELETE CASCADE foreign key. Deleting a missing row is not an error.
	Delete(ctx context.Context, id string) error
}
