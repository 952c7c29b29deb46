package handler

import (
	"github.com/gofiber/fiber/v2"

	"qualityweb/internal/http/middleware"
	"qualityweb/internal/service"
)

// loginRequest accepts the address as either correo or email.
type loginRequest struct {
	Correo   string `json:"correo" form:"correo"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login godoc
// @Summary  Exchange credentials for a session token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "Credentials"
// @Success  200 {object} service.LoginResult
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Router   /api/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body could not be parsed")
		}
		email := req.Correo
		if email == "" {
			email = req.Email
		}
		res, err := svc.Login(c.UserContext(), email, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// LoginMethodNotAllowed answers browsers that open the login URL directly.
func LoginMethodNotAllowed() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAllow, fiber.MethodPost)
		return writeError(c, fiber.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use POST /api/auth/login")
	}
}

// Logout godoc
// @Summary  Revoke the current session token
// @Tags     auth
// @Security BearerAuth
// @Success  204
// @Router   /api/auth/logout [post]
func Logout(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := middleware.IdentityFromCtx(c)
		if err := svc.Logout(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
