package model

import "time"

// Document represents an uploaded file owned by exactly one user.
// StoragePath is an opaque handle into object storage; the bytes themselves
// are never persisted in the database. UploadedAt is set once on creation.
type Document struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner"`
	Title       string    `json:"title"`
	Department  string    `json:"department"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
