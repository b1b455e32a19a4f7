package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VictorDevvs/factory-api/internal/application/auth"
	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/pkg/validator"
)

// AuthHandler maneja el login del operador.
type AuthHandler struct {
	uc       *auth.AuthUseCase
	validate *validator.Validator
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, v *validator.Validator) *AuthHandler {
	return &AuthHandler{uc: uc, validate: v}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bindJSON(c, h.validate, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
