package handler

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"qualityweb/internal/report"
	"qualityweb/internal/service"
)

// IndicatorPDF godoc
// @Summary  Indicator sheet as PDF
// @Tags     indicadores
// @Produce  application/pdf
// @Security BearerAuth
// @Param    id path int true "Indicator ID"
// @Success  200 {file} binary
// @Failure  404 {object} errorPayload
// @Router   /api/indicadores/{id}/pdf [get]
func IndicatorPDF(svc service.IndicatorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		ind, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}

		var buf bytes.Buffer
		if err := report.RenderIndicator(&buf, ind); err != nil {
			return internalError(c, err)
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%s", report.FileName(id)))
		return c.Send(buf.Bytes())
	}
}

// ListIndicators godoc
// @Summary  List indicadores
// @Tags     indicadores
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} model.Indicator
// @Router   /api/indicadores [get]
func ListIndicators(svc service.IndicatorService) fiber.Handler { return ListRecords(svc) }

// CreateIndicator godoc
// @Summary  Create
// @Tags     indicadores
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body model.IndicatorFields true "Record"
// @Success  201 {object} model.Indicator
// @Failure  400 {object} errorPayload
// @Router   /api/indicadores [post]
func CreateIndicator(svc service.IndicatorService) fiber.Handler { return CreateRecord(svc) }

// GetIndicator godoc
// @Summary  Get
// @Tags     indicadores
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "ID"
// @Success  200 {object} model.Indicator
// @Failure  404 {object} errorPayload
// @Router   /api/indicadores/{id} [get]
func GetIndicator(svc service.IndicatorService) fiber.Handler { return GetRecord(svc) }

// UpdateIndicator godoc
// @Summary  Update; omitted fields keep their value
// @Tags     indicadores
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path int true "ID"
// @Param    body body model.IndicatorFields true "Fields to change"
// @Success  200 {object} model.Indicator
// @Failure  404 {object} errorPayload
// @Router   /api/indicadores/{id} [put]
func UpdateIndicator(svc service.IndicatorService) fiber.Handler { return UpdateRecord(svc) }

// DeleteIndicator godoc
// @Summary  Delete
// @Tags     indicadores
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "ID"
// @Success  200 {object} okResponse
// @Failure  404 {object} errorPayload
// @Router   /api/indicadores/{id} [delete]
func DeleteIndicator(svc service.IndicatorService) fiber.Handler { return DeleteRecord(svc) }

func registerIndicatorRoutes(r fiber.Router, gate fiber.Handler, svc service.IndicatorService) {
	r.Get("/indicadores", gate, ListIndicators(svc))
	r.Post("/indicadores", gate, CreateIndicator(svc))
	r.Get("/indicadores/:id", gate, GetIndicator(svc))
	r.Put("/indicadores/:id", gate, UpdateIndicator(svc))
	r.Delete("/indicadores/:id", gate, DeleteIndicator(svc))
}
