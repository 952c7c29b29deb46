package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"qualityweb/internal/apperror"
	"qualityweb/internal/upload"
)

var (
	ErrInvalidInput      = apperror.Validation("VALIDATION_ERROR", "invalid input")
	ErrFileRequired      = apperror.Validation("FILE_REQUIRED", "a file is required")
	ErrFileTooLarge      = apperror.Validation("FILE_TOO_LARGE", "file exceeds the maximum allowed size")
	ErrFileNameTooLong   = apperror.Validation("FILE_NAME_TOO_LONG", "file name is too long")
	ErrFileType          = apperror.Validation("FILE_TYPE_UNSUPPORTED", "only PDF, XLS and XLSX files are allowed")
	ErrCredentials       = apperror.Validation("CREDENTIALS_REQUIRED", "correo and password are required")
	ErrInvalidCredential = apperror.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	ErrUserInactive      = apperror.Forbidden("USER_INACTIVE", "user account is inactive")
	ErrDocumentNotFound  = apperror.NotFound("DOCUMENT_NOT_FOUND", "document not found")
	// ErrResponsibleNotFound reports an id_responsable that matches no user.
	ErrResponsibleNotFound = apperror.NotFound("RESPONSIBLE_NOT_FOUND", "responsible user not found")
)

var validate = newValidator()

// newValidator reports field errors under their JSON names so messages line
// up with the request body.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput returns a ValidationError listing every offending field.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrInvalidInput.Wrap(err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &apperror.Error{
		Kind:    apperror.KindValidation,
		Code:    ErrInvalidInput.Code,
		Message: strings.Join(msgs, "; "),
		Err:     err,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "datetime":
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "min":
		return fe.Field() + " must not be empty"
	case "gt":
		return fe.Field() + " must be a positive id"
	default:
		return fe.Field() + " is invalid"
	}
}

// uploadError maps an upload policy rejection to its client error.
func uploadError(err error) error {
	switch {
	case errors.Is(err, upload.ErrNoFile):
		return ErrFileRequired
	case errors.Is(err, upload.ErrFileTooLarge):
		return ErrFileTooLarge
	case errors.Is(err, upload.ErrFileNameTooLong):
		return ErrFileNameTooLong
	case errors.Is(err, upload.ErrFileTypeUnsupported):
		return ErrFileType.Wrap(err)
	default:
		return apperror.Storage("inspect upload", err)
	}
}
