package handlers

import (
	"errors"
	"io/fs"
	"path"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/academic-support/internal/store"
	apperrors "github.com/spec-kit/academic-support/pkg/util/errorutil"
)

// FilesHandler serves uploaded blobs at their stable download references.
type FilesHandler struct {
	blobs store.BlobStore
}

// NewFilesHandler constructs the handler.
func NewFilesHandler(blobs store.BlobStore) *FilesHandler {
	return &FilesHandler{blobs: blobs}
}

// Download GET /files/*.
func (h *FilesHandler) Download(c *fiber.Ctx) error {
	key := c.Params("*")
	content, err := h.blobs.Open(key)
	if err != nil {
		if errors.Is(err, store.ErrInvalidKey) || errors.Is(err, fs.ErrNotExist) {
			return apperrors.NewNotFound("file", map[string]any{"key": key})
		}
		return apperrors.MapError(err)
	}

	c.Attachment(path.Base(key))
	return c.SendStream(content)
}
