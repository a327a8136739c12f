package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/policy"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

const (
	maxTitleLen       = 50
	maxDepartmentLen  = 50
	defaultDepartment = "General"

	// presignExpiry bounds the lifetime of the download URL embedded in a
	// document detail response.
	presignExpiry = 15 * time.Minute
)

// SignatureView is the wire projection of a signature.
type SignatureView struct {
	ID       string    `json:"id"`
	User     string    `json:"user"`
	SignedAt time.Time `json:"signed_at"`
}

// DocumentView is the wire projection of a document, including the derived
// signing fields. SignedBy/SignedAt reflect the most recently inserted
// signature; FileSize is omitted (null) when the stored size is unknown.
type DocumentView struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Department string          `json:"department"`
	Owner      string          `json:"owner"`
	UploadedAt time.Time       `json:"uploaded_at"`
	FileDoc    string          `json:"file_doc"`
	FileSize   *string         `json:"file_size"`
	IsSigned   bool            `json:"is_signed"`
	SignedBy   *string         `json:"signed_by"`
	SignedAt   *time.Time      `json:"signed_at"`
	Signatures []SignatureView `json:"signatures"`
}

// CreateDocumentInput carries the multipart upload fields. Any owner supplied
// by the caller is ignored; ownership always comes from the acting user.
type CreateDocumentInput struct {
	Title       string
	Department  string
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// DocumentService defines the document lifecycle use cases. Every operation
// takes the acting user explicitly and consults the policy before touching
// state; nothing here relies on ambient request context.
type DocumentService interface {
	// List returns the documents visible to actor: all of them for managers,
	// only owned ones otherwise.
	List(ctx context.Context, actor model.Actor) ([]DocumentView, error)

	// Create uploads the file to object storage and records the document with
	// actor as owner, rolling the object back if the DB insert fails.
	Create(ctx context.Context, actor model.Actor, in CreateDocumentInput) (*DocumentView, error)

	// Get returns a single document with signatures and derived fields.
	Get(ctx context.Context, actor model.Actor, id string) (*DocumentView, error)

	// Delete removes the document, its stored object, and (via cascade) its
	// signatures.
	Delete(ctx context.Context, actor model.Actor, id string) error

	// Download streams the stored file. The caller must close the reader.
	Download(ctx context.Context, actor model.Actor, id string) (io.ReadCloser, *model.Document, error)
}

type documentService struct {
	store storage.Storage
	docs  repository.DocumentRepository
	sigs  repository.SignatureRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, docs repository.DocumentRepository, sigs repository.SignatureRepository) DocumentService {
	return &documentService{store: store, docs: docs, sigs: sigs}
}

func (s *documentService) List(ctx context.Context, actor model.Actor) ([]DocumentView, error) {
	var (
		items []model.Document
		err   error
	)
	if policy.Can(actor, nil, policy.ActionListAll) {
		items, err = s.docs.ListAll(ctx)
	} else {
		items, err = s.docs.ListByOwner(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(items))
	for i, d := range items {
		ids[i] = d.ID
	}
	grouped, err := s.sigs.ListByDocuments(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]DocumentView, len(items))
	for i, d := range items {
		doc := d
		views[i] = buildDocumentView(&doc, grouped[d.ID], doc.StoragePath)
	}
	return views, nil
}

func (s *documentService) Create(ctx context.Context, actor model.Actor, in CreateDocumentInput) (*DocumentView, error) {
	if !policy.Can(actor, nil, policy.ActionCreate) {
		return nil, ErrPermissionDenied
	}

	fe := FieldErrors{}
	// Length limits count characters, not bytes, matching the VARCHAR(50)
	// columns.
	if in.Title == "" {
		fe.Add("title", "This field is required")
	} else if utf8.RuneCountInString(in.Title) > maxTitleLen {
		fe.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters", maxTitleLen))
	}
	department := in.Department
	if department == "" {
		department = defaultDepartment
	} else if utf8.RuneCountInString(department) > maxDepartmentLen {
		fe.Add("department", fmt.Sprintf("Ensure this field has no more than %d characters", maxDepartmentLen))
	}
	if in.File == nil {
		fe.Add("file_doc", "No file was submitted")
	}
	if len(fe) > 0 {
		return nil, fe
	}

	// Generated storage name: UUID + original extension, under docs/.
	ext := filepath.Ext(in.Filename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("docs", genName))

	objInfo, err := s.store.Put(ctx, key, in.File, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		OwnerID:     actor.ID,
		OwnerName:   actor.Username,
		Title:       in.Title,
		Department:  department,
		Filename:    genName,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		UploadedAt:  time.Now().UTC(),
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	view := buildDocumentView(stored, nil, stored.StoragePath)
	return &view, nil
}

func (s *documentService) Get(ctx context.Context, actor model.Actor, id string) (*DocumentView, error) {
	doc, err := s.findAuthorized(ctx, actor, id, policy.ActionRead)
	if err != nil {
		return nil, err
	}

	sigs, err := s.sigs.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	// Prefer a presigned URL for the file reference; fall back to the raw
	// storage path if presigning is unavailable.
	fileDoc := doc.StoragePath
	if u, err := s.store.PresignGet(ctx, doc.StoragePath, presignExpiry); err == nil && u != "" {
		fileDoc = u
	}

	view := buildDocumentView(doc, sigs, fileDoc)
	return &view, nil
}

func (s *documentService) Delete(ctx context.Context, actor model.Actor, id string) error {
	doc, err := s.findAuthorized(ctx, actor, id, policy.ActionDelete)
	if err != nil {
		return err
	}
	// Delete from storage first; if this fails, keep the DB row so the
	// stored object is not orphaned without a reference.
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.docs.Delete(ctx, id)
}

func (s *documentService) Download(ctx context.Context, actor model.Actor, id string) (io.ReadCloser, *model.Document, error) {
	doc, err := s.findAuthorized(ctx, actor, id, policy.ActionDownload)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("get storage object: %w", err)
	}
	return rc, doc, nil
}

// findAuthorized fetches a document and applies the policy for the given
// action: existence first (404 beats 403 for documents the actor could not
// see anyway), then permission.
func (s *documentService) findAuthorized(ctx context.Context, actor model.Actor, id string, action policy.Action) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !policy.Can(actor, doc, action) {
		return nil, ErrPermissionDenied
	}
	return doc, nil
}

func buildDocumentView(doc *model.Document, sigs []model.Signature, fileDoc string) DocumentView {
	view := DocumentView{
		ID:         doc.ID,
		Title:      doc.Title,
		Department: doc.Department,
		Owner:      doc.OwnerName,
		UploadedAt: doc.UploadedAt,
		FileDoc:    fileDoc,
		Signatures: make([]SignatureView, 0, len(sigs)),
	}

	if doc.Size > 0 {
		size := fmt.Sprintf("%.2f KB", float64(doc.Size)/1024)
		view.FileSize = &size
	}

	for _, s := range sigs {
		view.Signatures = append(view.Signatures, SignatureView{
			ID:       s.ID,
			User:     s.UserName,
			SignedAt: s.SignedAt,
		})
	}
	if len(sigs) > 0 {
		last := sigs[len(sigs)-1]
		view.IsSigned = true
		view.SignedBy = &last.UserName
		view.SignedAt = &last.SignedAt
	}
	return view
}
