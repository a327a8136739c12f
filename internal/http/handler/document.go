package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// ListDocuments handles GET /documents.
//
// @Summary List documents visible to the caller
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.DocumentView
// @Router /documents/ [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)
		views, err := svc.List(c.UserContext(), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(views)
	}
}

// UploadDocument handles POST /documents (multipart/form-data with fields
// title, department, file_doc).
//
// @Summary Upload a new document
// @Tags documents
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} service.DocumentView
// @Router /documents/ [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)

		in := service.CreateDocumentInput{
			Title:      c.FormValue("title"),
			Department: c.FormValue("department"),
		}

		// A missing or unreadable file is reported by the service as a
		// field-keyed validation error, like the other form fields.
		if fh, err := c.FormFile("file_doc"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			in.File = f
			in.Filename = fh.Filename
			in.ContentType = ct
			in.Size = fh.Size
		}

		view, err := svc.Create(c.UserContext(), actor, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// GetDocument handles GET /documents/:id.
//
// @Summary Fetch a single document with signatures
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DocumentView
// @Router /documents/{id}/ [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		// An unparsable ID can never match a stored document, so it reads as
		// not found rather than a malformed request.
		if _, err := uuid.Parse(id); err != nil {
			return writeServiceError(c, service.ErrNotFound)
		}
		actor := middleware.ActorFromCtx(c)
		view, err := svc.Get(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// DeleteDocument handles DELETE /documents/:id.
//
// @Summary Delete a document and its signatures
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /documents/{id}/ [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeServiceError(c, service.ErrNotFound)
		}
		actor := middleware.ActorFromCtx(c)
		if err := svc.Delete(c.UserContext(), actor, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Deleted"})
	}
}

// SignDocument handles POST /documents/:id/sign.
//
// @Summary Countersign a document (managers only)
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /documents/{id}/sign [post]
func SignDocument(svc service.SignatureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeServiceError(c, service.ErrNotFound)
		}
		actor := middleware.ActorFromCtx(c)
		if _, err := svc.Sign(c.UserContext(), actor, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Signed successfully"})
	}
}

// DownloadDocument handles GET /documents/:id/download, streaming the stored
// file as an attachment.
//
// @Summary Download a document's file
// @Tags documents
// @Produce octet-stream
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeServiceError(c, service.ErrNotFound)
		}
		actor := middleware.ActorFromCtx(c)
		rc, doc, err := svc.Download(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
		if doc.ContentType != "" {
			c.Set(fiber.HeaderContentType, doc.ContentType)
		}
		if doc.Size > 0 {
			return c.SendStream(rc, int(doc.Size))
		}
		return c.SendStream(rc)
	}
}
