package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// okResponse is the body returned by successful deletes.
type okResponse struct {
	OK bool `json:"ok"`
}

// parseID reads the :id route parameter. ok is false once a 400 has been written.
func parseID(c *fiber.Ctx) (id int64, ok bool, err error) {
	id, perr := strconv.ParseInt(c.Params("id"), 10, 64)
	if perr != nil || id <= 0 {
		return 0, false, writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id must be a positive integer")
	}
	return id, true, nil
}
