package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/VictorDevvs/factory-api/internal/application/auth"
	"github.com/VictorDevvs/factory-api/internal/application/catalog"
	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/internal/application/production"
	"github.com/VictorDevvs/factory-api/internal/application/usecase"
	"github.com/VictorDevvs/factory-api/internal/infrastructure/memory"
	"github.com/VictorDevvs/factory-api/internal/infrastructure/pdf"
	apphttp "github.com/VictorDevvs/factory-api/internal/interfaces/http"
	"github.com/VictorDevvs/factory-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// newTestAPI arma la app completa sobre el store en memoria. authUC nil = API abierta.
func newTestAPI(t *testing.T, authUC *auth.AuthUseCase, secret string) *fiber.App {
	t.Helper()
	log := logger.Nop()
	store := memory.NewStore()

	app := apphttp.NewApp("factory-api-test", 4*1024*1024, log)
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName:   "factory-api-test",
		RawMaterialUC: usecase.NewRawMaterialUseCase(store.RawMaterials()),
		ProductUC:     usecase.NewProductUseCase(store.Products(), store),
		CsvImportUC:   catalog.NewCsvImportUseCase(store, log),
		OptimizeUC:    production.NewOptimizeUseCase(store.Products(), pdf.NewMarotoPlanGenerator("Test"), log),
		AuthUC:        authUC,
		JWTSecret:     secret,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func createRawMaterial(t *testing.T, app *fiber.App, code, stock string) dto.RawMaterialResponse {
	t.Helper()
	resp, data := doJSON(t, app, http.MethodPost, "/api/v1/raw-materials", map[string]any{
		"code": code, "name": "Material " + code, "stock_quantity": stock, "unit": "kg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	return decode[dto.RawMaterialResponse](t, data)
}

func createProduct(t *testing.T, app *fiber.App, code, saleValue string, comps ...map[string]any) dto.ProductResponse {
	t.Helper()
	resp, data := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{
		"code": code, "name": "Producto " + code, "sale_value": saleValue, "compositions": comps,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	return decode[dto.ProductResponse](t, data)
}

func comp(rawMaterialID, qty string) map[string]any {
	return map[string]any{"raw_material_id": rawMaterialID, "required_quantity": qty}
}

func uploadCSV(t *testing.T, app *fiber.App, content []byte) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "materias.csv")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/raw-materials/import/simple", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// ──────────────────────────────────────────────────────────────────────────────
// Health
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	app := newTestAPI(t, nil, "")
	resp, data := doJSON(t, app, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, data)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "factory-api-test", body["service"])
}

func TestRutaInexistente_Formato404(t *testing.T) {
	app := newTestAPI(t, nil, "")
	resp, data := doJSON(t, app, http.MethodGet, "/api/v1/nada", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, data)
	assert.NotEmpty(t, body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Materias primas
// ──────────────────────────────────────────────────────────────────────────────

func TestRawMaterials_CRUD(t *testing.T) {
	app := newTestAPI(t, nil, "")
	created := createRawMaterial(t, app, "FL", "2500.5")

	resp, data := doJSON(t, app, http.MethodGet, "/api/v1/raw-materials/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.RawMaterialResponse](t, data)
	assert.True(t, got.StockQuantity.Equal(decimal.RequireFromString("2500.5")))

	resp, data = doJSON(t, app, http.MethodPut, "/api/v1/raw-materials/"+created.ID, map[string]any{
		"code": "FL", "name": "Harina", "stock_quantity": 10, "unit": "g",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "Harina", decode[dto.RawMaterialResponse](t, data).Name)

	resp, data = doJSON(t, app, http.MethodGet, "/api/v1/raw-materials", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.RawMaterialListResponse](t, data).Items, 1)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/raw-materials/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, data = doJSON(t, app, http.MethodGet, "/api/v1/raw-materials/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, data).Code)
}

func TestRawMaterials_Validacion(t *testing.T) {
	app := newTestAPI(t, nil, "")
	resp, data := doJSON(t, app, http.MethodPost, "/api/v1/raw-materials", map[string]any{
		"code": "FL", "name": "", "stock_quantity": "-1", "unit": "kg",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, data)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Details, "name: es requerido")
	assert.Contains(t, body.Details, "stock_quantity: debe ser mayor o igual a 0")
}

func TestRawMaterials_CuerpoInvalido(t *testing.T) {
	app := newTestAPI(t, nil, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/raw-materials", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRawMaterials_CodigoDuplicado409(t *testing.T) {
	app := newTestAPI(t, nil, "")
	createRawMaterial(t, app, "FL", "1")
	resp, data := doJSON(t, app, http.MethodPost, "/api/v1/raw-materials", map[string]any{
		"code": "FL", "name": "Otra", "stock_quantity": "1", "unit": "kg",
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, data).Code)
}

func TestRawMaterials_DeleteEnUso409(t *testing.T) {
	app := newTestAPI(t, nil, "")
	fl := createRawMaterial(t, app, "FL", "10")
	createProduct(t, app, "BREAD", "5", comp(fl.ID, "1"))

	resp, data := doJSON(t, app, http.MethodDelete, "/api/v1/raw-materials/"+fl.ID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, data).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_TodoValido200(t *testing.T) {
	app := newTestAPI(t, nil, "")
	resp, data := uploadCSV(t, app, []byte("code,name,stockQuantity,unit\nFL,Harina,100,kg\nSG,Azúcar,50,kg\n"))

	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	out := decode[dto.CsvImportResponse](t, data)
	assert.Equal(t, 2, out.RecordsImported)
	assert.Empty(t, out.Errors)
}

func TestImport_ConErrores207(t *testing.T) {
	app := newTestAPI(t, nil, "")
	resp, data := uploadCSV(t, app, []byte("code,name,stockQuantity,unit\nFL,Harina,100,kg\nSG,Azúcar,x,kg\n"))

	require.Equal(t, http.StatusMultiStatus, resp.StatusCode, string(data))
	out := decode[dto.CsvImportResponse](t, data)
	assert.Equal(t, 1, out.RecordsImported)
	assert.Equal(t, 1, out.RecordsSkipped)
	assert.Equal(t, []string{"línea 3: stockQuantity inválido: 'x'"}, out.Errors)
}

func TestImport_ArchivoVacio400(t *testing.T) {
	app := newTestAPI(t, nil, "")
	resp, data := uploadCSV(t, app, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_FILE", decode[dto.ErrorResponse](t, data).Code)
}

func TestImport_SinArchivo400(t *testing.T) {
	app := newTestAPI(t, nil, "")
	resp, data := doJSON(t, app, http.MethodPost, "/api/v1/raw-materials/import/simple", nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FILE", decode[dto.ErrorResponse](t, data).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CRUD(t *testing.T) {
	app := newTestAPI(t, nil, "")
	fl := createRawMaterial(t, app, "FL", "10")
	sg := createRawMaterial(t, app, "SG", "10")

	created := createProduct(t, app, "CAKE", "30", comp(fl.ID, "2"), comp(sg.ID, "1"))
	require.Len(t, created.Compositions, 2)
	assert.Equal(t, "FL", created.Compositions[0].RawMaterialCode)

	resp, data := doJSON(t, app, http.MethodPut, "/api/v1/products/"+created.ID, map[string]any{
		"code": "CAKE", "name": "Torta", "sale_value": "35.90", "compositions": []any{comp(sg.ID, "3")},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	updated := decode[dto.ProductResponse](t, data)
	assert.Equal(t, "Torta", updated.Name)
	require.Len(t, updated.Compositions, 1)
	assert.Equal(t, "SG", updated.Compositions[0].RawMaterialCode)

	resp, data = doJSON(t, app, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.ProductListResponse](t, data).Items, 1)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_Validacion(t *testing.T) {
	app := newTestAPI(t, nil, "")
	fl := createRawMaterial(t, app, "FL", "10")

	cases := map[string]map[string]any{
		"sin composiciones": {"code": "A", "name": "A", "sale_value": "10", "compositions": []any{}},
		"valor cero":        {"code": "A", "name": "A", "sale_value": "0", "compositions": []any{comp(fl.ID, "1")}},
		"cantidad mínima":   {"code": "A", "name": "A", "sale_value": "10", "compositions": []any{comp(fl.ID, "0.001")}},
		"sin código":        {"name": "A", "sale_value": "10", "compositions": []any{comp(fl.ID, "1")}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, data := doJSON(t, app, http.MethodPost, "/api/v1/products", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))
		})
	}
}

func TestProducts_MateriaPrimaRepetida400(t *testing.T) {
	app := newTestAPI(t, nil, "")
	fl := createRawMaterial(t, app, "FL", "10")

	resp, data := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{
		"code": "A", "name": "A", "sale_value": "10",
		"compositions": []any{comp(fl.ID, "1"), comp(fl.ID, "2")},
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))
	body := decode[dto.ErrorResponse](t, data)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, []string{"compositions[1].raw_material_id: materia prima repetida en el producto"}, body.Details)
}

func TestProducts_MateriaPrimaInexistente404(t *testing.T) {
	app := newTestAPI(t, nil, "")
	resp, data := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{
		"code": "A", "name": "A", "sale_value": "10", "compositions": []any{comp("ghost", "1")},
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "no se encontró materia prima con id: ghost", decode[dto.ErrorResponse](t, data).Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Producción
// ──────────────────────────────────────────────────────────────────────────────

func TestProduction_Optimize(t *testing.T) {
	app := newTestAPI(t, nil, "")
	fl := createRawMaterial(t, app, "FL", "10")
	sg := createRawMaterial(t, app, "SG", "4")
	createProduct(t, app, "BREAD", "5", comp(fl.ID, "1"))
	createProduct(t, app, "CAKE", "30", comp(fl.ID, "2"), comp(sg.ID, "1"))

	resp, data := doJSON(t, app, http.MethodGet, "/api/v1/production/optimize", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "suggestions")
	assert.Contains(t, raw, "total_value")

	out := decode[dto.ProductionSuggestionResponse](t, data)
	require.Len(t, out.Suggestions, 2)
	assert.Equal(t, "CAKE", out.Suggestions[0].ProductCode)
	assert.Equal(t, int64(4), out.Suggestions[0].QuantityToProduce)
	assert.Equal(t, "BREAD", out.Suggestions[1].ProductCode)
	assert.Equal(t, int64(2), out.Suggestions[1].QuantityToProduce)
	assert.True(t, out.TotalValue.Equal(decimal.NewFromInt(130)))
}

func TestProduction_OptimizeCatalogoVacio(t *testing.T) {
	app := newTestAPI(t, nil, "")
	resp, data := doJSON(t, app, http.MethodGet, "/api/v1/production/optimize", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.ProductionSuggestionResponse](t, data)
	assert.NotNil(t, out.Suggestions)
	assert.Empty(t, out.Suggestions)
	assert.True(t, out.TotalValue.IsZero())
}

func TestProduction_OptimizePDF(t *testing.T) {
	app := newTestAPI(t, nil, "")
	fl := createRawMaterial(t, app, "FL", "10")
	createProduct(t, app, "BREAD", "5", comp(fl.ID, "1"))

	resp, data := doJSON(t, app, http.MethodGet, "/api/v1/production/optimize/pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func newSecuredAPI(t *testing.T) *fiber.App {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3creta"), bcrypt.MinCost)
	require.NoError(t, err)
	authUC := auth.NewAuthUseCase(
		auth.Credentials{Username: testUsername, PasswordHash: string(hash)},
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
	)
	return newTestAPI(t, authUC, testJWTSecret)
}

func TestAuth_RutasProtegidasSinToken(t *testing.T) {
	app := newSecuredAPI(t)
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/raw-materials", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/production/optimize", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "health es público")
}

func TestAuth_LoginYAcceso(t *testing.T) {
	app := newSecuredAPI(t)

	resp, data := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": testUsername, "password": "s3creta",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	login := decode[dto.LoginResponse](t, data)
	assert.Equal(t, "Bearer", login.TokenType)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/raw-materials", nil, "Authorization", "Bearer "+login.Token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth_LoginInvalido(t *testing.T) {
	app := newSecuredAPI(t)
	resp, data := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": testUsername, "password": "otra",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decode[dto.ErrorResponse](t, data).Code)
}

func TestAuth_APIAbiertaSinLogin(t *testing.T) {
	app := newTestAPI(t, nil, "")
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "x", "password": "y",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "sin JWT_SECRET no se monta login")
}
