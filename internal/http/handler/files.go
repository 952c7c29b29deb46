package handler

import (
	"errors"
	"net/url"
	"path"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"qualityweb/internal/storage"
)

// ServeFile streams a stored blob addressed by the wildcard path.
func ServeFile(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := url.PathUnescape(c.Params("*"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PATH", "invalid file path")
		}
		key, err := storage.CleanKey(raw)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PATH", "invalid file path")
		}

		rc, info, err := store.Get(c.UserContext(), key)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				return writeError(c, fiber.StatusNotFound, "FILE_NOT_FOUND", "file not found")
			}
			if errors.Is(err, storage.ErrInvalidKey) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PATH", "invalid file path")
			}
			return internalError(c, err)
		}

		contentType := info.ContentType
		if contentType == "" {
			contentType = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderContentDisposition, "inline; filename="+strconv.Quote(path.Base(key)))

		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		// The response body stream closes rc once it has been sent.
		return c.SendStream(rc, size)
	}
}
