package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

import "errors"

// Sentinel errors surfaced by implementations when a database constraint
// rejects a write. Mapping constraint violations here (instead of
// check-then-act queries in services) keeps the invariants atomic under
// concurrent requests.
var (
	// ErrUsernameTaken is returned when the unique index on users.username rejects an insert.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when the unique index on users.email rejects an insert.
	ErrEmailTaken = errors.New("email already registered")
	// ErrDuplicateSignature is returned when the unique (document_id, user_id)
	// index rejects a signature insert. The losing writer of a concurrent race
	// sees this error; exactly one signature row exists afterwards.
	ErrDuplicateSignature = errors.New("signature already exists")
	// ErrDocumentGone is returned when a signature insert fails its foreign key
	// because the document was deleted concurrently.
	ErrDocumentGone = errors.New("document no longer exists")
)
