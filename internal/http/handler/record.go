package handler

import (
	"github.com/gofiber/fiber/v2"

	"qualityweb/internal/service"
)

// The record handlers serve audits, corrective actions and indicators; they
// differ only in the service and payload types. Each resource file wraps them
// under its own route annotations.

func ListRecords[T, C, U any](svc service.RecordService[T, C, U]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(items)
	}
}

func GetRecord[T, C, U any](svc service.RecordService[T, C, U]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		rec, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(rec)
	}
}

func CreateRecord[T, C, U any](svc service.RecordService[T, C, U]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in C
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body could not be parsed")
		}
		rec, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

func UpdateRecord[T, C, U any](svc service.RecordService[T, C, U]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		var patch U
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body could not be parsed")
		}
		rec, err := svc.Update(c.UserContext(), id, patch)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(rec)
	}
}

func DeleteRecord[T, C, U any](svc service.RecordService[T, C, U]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(okResponse{OK: true})
	}
}
