package handler

import (
	"github.com/gofiber/fiber/v2"

	"qualityweb/internal/service"
)

// ListAudits godoc
// @Summary  List auditorias
// @Tags     auditorias
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} model.Audit
// @Router   /api/auditorias [get]
func ListAudits(svc service.AuditService) fiber.Handler { return ListRecords(svc) }

// CreateAudit godoc
// @Summary  Create
// @Tags     auditorias
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body model.AuditInput true "Record"
// @Success  201 {object} model.Audit
// @Failure  400 {object} errorPayload
// @Router   /api/auditorias [post]
func CreateAudit(svc service.AuditService) fiber.Handler { return CreateRecord(svc) }

// GetAudit godoc
// @Summary  Get
// @Tags     auditorias
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "ID"
// @Success  200 {object} model.Audit
// @Failure  404 {object} errorPayload
// @Router   /api/auditorias/{id} [get]
func GetAudit(svc service.AuditService) fiber.Handler { return GetRecord(svc) }

// UpdateAudit godoc
// @Summary  Update; omitted fields keep their value
// @Tags     auditorias
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path int true "ID"
// @Param    body body model.AuditPatch true "Fields to change"
// @Success  200 {object} model.Audit
// @Failure  404 {object} errorPayload
// @Router   /api/auditorias/{id} [put]
func UpdateAudit(svc service.AuditService) fiber.Handler { return UpdateRecord(svc) }

// DeleteAudit godoc
// @Summary  Delete
// @Tags     auditorias
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "ID"
// @Success  200 {object} okResponse
// @Failure  404 {object} errorPayload
// @Router   /api/auditorias/{id} [delete]
func DeleteAudit(svc service.AuditService) fiber.Handler { return DeleteRecord(svc) }

func registerAuditRoutes(r fiber.Router, gate fiber.Handler, svc service.AuditService) {
	r.Get("/auditorias", gate, ListAudits(svc))
	r.Post("/auditorias", gate, CreateAudit(svc))
	r.Get("/auditorias/:id", gate, GetAudit(svc))
	r.Put("/auditorias/:id", gate, UpdateAudit(svc))
	r.Delete("/auditorias/:id", gate, DeleteAudit(svc))
}
