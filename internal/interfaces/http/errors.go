package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/internal/domain"
	"github.com/VictorDevvs/factory-api/pkg/logger"
	"github.com/VictorDevvs/factory-api/pkg/validator"
)

var errInvalidBody = errors.New("cuerpo inválido")

// respondError traduce errores de dominio a códigos HTTP y dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		fieldErrs  validator.FieldErrors
		validation *domain.ValidationError
		fiberErr   *fiber.Error
	)
	switch {
	case errors.Is(err, errInvalidBody):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()}
	case errors.As(err, &fieldErrs):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: fieldErrs}
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: validation.Fields}
	case errors.Is(err, domain.ErrEmptyFile):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "EMPTY_FILE", Message: "el archivo está vacío"}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un registro con ese código"}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: "el recurso está en uso por otros registros"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
	}
}

// ErrorHandler formatea los errores no manejados por los handlers (rutas inexistentes, panics recuperados, etc.).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("error no manejado")
		}
		return c.Status(status).JSON(body)
	}
}

// bindJSON parsea el cuerpo JSON en out y lo valida con los tags `validate`.
func bindJSON(c *fiber.Ctx, v *validator.Validator, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return v.Struct(out)
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
}
