package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/policy"
	"docvault/internal/repository"
)

// SignatureService appends to the signature ledger. There is no update or
// revoke: once a manager has countersigned a document, the record is final.
type SignatureService interface {
	// Sign countersigns a document as actor. Order of failures: permission
	// (only managers sign, their own documents included), then existence,
	// then the one-signature-per-(document, manager) invariant.
	Sign(ctx context.Context, actor model.Actor, documentID string) (*model.Signature, error)
}

type signatureService struct {
	docs repository.DocumentRepository
	sigs repository.SignatureRepository
}

// NewSignatureService constructs a new SignatureService.
func NewSignatureService(docs repository.DocumentRepository, sigs repository.SignatureRepository) SignatureService {
	return &signatureService{docs: docs, sigs: sigs}
}

func (s *signatureService) Sign(ctx context.Context, actor model.Actor, documentID string) (*model.Signature, error) {
	if !policy.Can(actor, nil, policy.ActionSign) {
		return nil, ErrPermissionDenied
	}
	if documentID == "" {
		return nil, ErrIDRequired
	}

	if _, err := s.docs.FindByID(ctx, documentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// No existence pre-check for the signature itself: the insert is the
	// check. Two concurrent signs race on the unique index and exactly one
	// wins; the other maps to ErrAlreadySigned. A concurrent document delete
	// fails the insert's foreign key instead, so no signature can ever
	// reference a missing document.
	sig := &model.Signature{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		UserID:     actor.ID,
		UserName:   actor.Username,
		SignedAt:   time.Now().UTC(),
	}
	created, err := s.sigs.Create(ctx, sig)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateSignature):
			return nil, ErrAlreadySigned
		case errors.Is(err, repository.ErrDocumentGone):
			return nil, ErrNotFound
		}
		return nil, err
	}
	return created, nil
}
