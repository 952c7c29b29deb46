package handler

import (
	"github.com/gofiber/fiber/v2"

	"qualityweb/internal/service"
)

// ListCorrectiveActions godoc
// @Summary  List acciones
// @Tags     acciones
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} model.CorrectiveAction
// @Router   /api/acciones [get]
func ListCorrectiveActions(svc service.CorrectiveActionService) fiber.Handler {
	return ListRecords(svc)
}

// CreateCorrectiveAction godoc
// @Summary  Create
// @Tags     acciones
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body model.CorrectiveActionInput true "Record"
// @Success  201 {object} model.CorrectiveAction
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/acciones [post]
func CreateCorrectiveAction(svc service.CorrectiveActionService) fiber.Handler {
	return CreateRecord(svc)
}

// GetCorrectiveAction godoc
// @Summary  Get
// @Tags     acciones
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "ID"
// @Success  200 {object} model.CorrectiveAction
// @Failure  404 {object} errorPayload
// @Router   /api/acciones/{id} [get]
func GetCorrectiveAction(svc service.CorrectiveActionService) fiber.Handler { return GetRecord(svc) }

// UpdateCorrectiveAction godoc
// @Summary  Update; omitted fields keep their value
// @Tags     acciones
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path int true "ID"
// @Param    body body model.CorrectiveActionPatch true "Fields to change"
// @Success  200 {object} model.CorrectiveAction
// @Failure  404 {object} errorPayload
// @Router   /api/acciones/{id} [put]
func UpdateCorrectiveAction(svc service.CorrectiveActionService) fiber.Handler {
	return UpdateRecord(svc)
}

// DeleteCorrectiveAction godoc
// @Summary  Delete
// @Tags     acciones
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "ID"
// @Success  200 {object} okResponse
// @Failure  404 {object} errorPayload
// @Router   /api/acciones/{id} [delete]
func DeleteCorrectiveAction(svc service.CorrectiveActionService) fiber.Handler {
	return DeleteRecord(svc)
}

func registerCorrectiveActionRoutes(r fiber.Router, gate fiber.Handler, svc service.CorrectiveActionService) {
	r.Get("/acciones", gate, ListCorrectiveActions(svc))
	r.Post("/acciones", gate, CreateCorrectiveAction(svc))
	r.Get("/acciones/:id", gate, GetCorrectiveAction(svc))
	r.Put("/acciones/:id", gate, UpdateCorrectiveAction(svc))
	r.Delete("/acciones/:id", gate, DeleteCorrectiveAction(svc))
}
