package handler

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"qualityweb/internal/model"
	"qualityweb/internal/service"
	"qualityweb/internal/upload"
)

// fileField is the multipart field carrying a document's file.
const fileField = "archivo"

// ListDocuments godoc
// @Summary  List documents
// @Tags     documentos
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} model.Document
// @Router   /api/documentos [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.List(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(docs)
	}
}

// GetDocument godoc
// @Summary  Get a document
// @Tags     documentos
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "Document ID"
// @Success  200 {object} model.Document
// @Failure  404 {object} errorPayload
// @Router   /api/documentos/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(doc)
	}
}

// CreateDocument godoc
// @Summary  Create a document, optionally with its file
// @Tags     documentos
// @Accept   multipart/form-data,json
// @Produce  json
// @Security BearerAuth
// @Param    nombre_documento formData string true  "Name"
// @Param    archivo          formData file   false "PDF, XLS or XLSX"
// @Success  201 {object} model.Document
// @Failure  400 {object} errorPayload
// @Router   /api/documentos [post]
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			in   model.DocumentInput
			file *upload.File
		)

		if isMultipart(c) {
			form, err := c.MultipartForm()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed multipart body")
			}
			in, err = documentInputFromForm(form)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
			}
			if fhs := form.File[fileField]; len(fhs) > 0 {
				f, closeFn, err := openUpload(fhs[0])
				if err != nil {
					return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
				}
				defer closeFn()
				file = f
			}
		} else if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body could not be parsed")
		}

		doc, err := svc.Create(c.UserContext(), in, file)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UpdateDocument godoc
// @Summary  Update document metadata; omitted fields keep their value
// @Tags     documentos
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path int                 true "Document ID"
// @Param    body body model.DocumentPatch true "Fields to change"
// @Success  200 {object} model.Document
// @Router   /api/documentos/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		var patch model.DocumentPatch
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body could not be parsed")
		}
		doc, err := svc.Update(c.UserContext(), id, patch)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(doc)
	}
}

// ReplaceDocumentFile godoc
// @Summary  Replace the file attached to a document
// @Tags     documentos
// @Accept   multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param    id      path     int  true "Document ID"
// @Param    archivo formData file true "PDF, XLS or XLSX"
// @Success  200 {object} model.Document
// @Router   /api/documentos/{id}/archivo [put]
func ReplaceDocumentFile(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}

		var file *upload.File
		if isMultipart(c) {
			if fh, err := c.FormFile(fileField); err == nil {
				f, closeFn, err := openUpload(fh)
				if err != nil {
					return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
				}
				defer closeFn()
				file = f
			}
		}

		doc, err := svc.ReplaceFile(c.UserContext(), id, file)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument godoc
// @Summary  Delete a document and its file
// @Tags     documentos
// @Produce  json
// @Security BearerAuth
// @Param    id path int true "Document ID"
// @Success  200 {object} okResponse
// @Router   /api/documentos/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
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

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// openUpload exposes a multipart part as an upload.File. The caller must
// invoke the returned close function.
func openUpload(fh *multipart.FileHeader) (*upload.File, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &upload.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Content:     f,
	}, func() { _ = f.Close() }, nil
}

func documentInputFromForm(form *multipart.Form) (model.DocumentInput, error) {
	in := model.DocumentInput{
		Code:    formValue(form, "codigo"),
		Version: formValue(form, "version"),
		Date:    formValue(form, "fecha"),
		Status:  formValue(form, "estado"),
		Process: formValue(form, "proceso"),
	}
	if name := formValue(form, "nombre_documento"); name != nil {
		in.Name = *name
	}
	if raw := formValue(form, "id_responsable"); raw != nil {
		id, err := strconv.ParseInt(*raw, 10, 64)
		if err != nil {
			return in, errInvalidResponsible
		}
		in.ResponsibleID = &id
	}
	return in, nil
}

var errInvalidResponsible = errors.New("id_responsable must be an integer")

// formValue returns the trimmed first value of key, or nil when it is absent or blank.
func formValue(form *multipart.Form, key string) *string {
	vs := form.Value[key]
	if len(vs) == 0 {
		return nil
	}
	v := strings.TrimSpace(vs[0])
	if v == "" {
		return nil
	}
	return &v
}
