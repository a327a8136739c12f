package model

import "time"

// Signature records that a manager countersigned a document at a point in
// time. The ledger is append-only: signatures are never updated or revoked,
// and a given user signs a given document at most once.
type Signature struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user"`
	SignedAt   time.Time `json:"signed_at"`
}
