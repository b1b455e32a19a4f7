package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/VictorDevvs/factory-api/internal/application/catalog"
	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/internal/application/usecase"
	"github.com/VictorDevvs/factory-api/pkg/validator"
)

// RawMaterialHandler maneja el CRUD de materias primas y la importación CSV.
type RawMaterialHandler struct {
	uc       *usecase.RawMaterialUseCase
	importUC *catalog.CsvImportUseCase
	validate *validator.Validator
}

// NewRawMaterialHandler construye el handler.
func NewRawMaterialHandler(uc *usecase.RawMaterialUseCase, importUC *catalog.CsvImportUseCase, v *validator.Validator) *RawMaterialHandler {
	return &RawMaterialHandler{uc: uc, importUC: importUC, validate: v}
}

// List godoc
// @Summary      Listar materias primas
// @Tags         raw-materials
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (0 = todas)"  default(0)
// @Param        offset  query  int  false  "Offset"              default(0)
// @Success      200     {object}  dto.RawMaterialListResponse
// @Router       /api/v1/raw-materials [get]
func (h *RawMaterialHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener materia prima por ID
// @Tags         raw-materials
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la materia prima"
// @Success      200  {object}  dto.RawMaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/raw-materials/{id} [get]
func (h *RawMaterialHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear materia prima
// @Tags         raw-materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RawMaterialRequest  true  "Datos de la materia prima"
// @Success      201   {object}  dto.RawMaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/raw-materials [post]
func (h *RawMaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.RawMaterialRequest
	if err := bindJSON(c, h.validate, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar materia prima
// @Tags         raw-materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la materia prima"
// @Param        body  body  dto.RawMaterialRequest  true  "Datos completos"
// @Success      200   {object}  dto.RawMaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/raw-materials/{id} [put]
func (h *RawMaterialHandler) Update(c *fiber.Ctx) error {
	var in dto.RawMaterialRequest
	if err := bindJSON(c, h.validate, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar materia prima
// @Tags         raw-materials
// @Security     Bearer
// @Param        id   path  string  true  "ID de la materia prima"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "En uso por algún producto"
// @Router       /api/v1/raw-materials/{id} [delete]
func (h *RawMaterialHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Import godoc
// @Summary      Importar materias primas desde CSV
// @Description  Columnas: code,name,stockQuantity,unit. La primera fila es cabecera. Upsert por código.
// @Tags         raw-materials
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo CSV (UTF-8 o ISO-8859-1)"
// @Success      200   {object}  dto.CsvImportResponse
// @Success      207   {object}  dto.CsvImportResponse  "Importación con líneas rechazadas"
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/raw-materials/import/simple [post]
func (h *RawMaterialHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "el campo file es requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.importUC.ImportRawMaterials(c.UserContext(), data)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if out.HasErrors() {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(out)
}
