package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorDevvs/factory-api/internal/application/catalog"
	"github.com/VictorDevvs/factory-api/internal/domain"
	"github.com/VictorDevvs/factory-api/internal/domain/entity"
	"github.com/VictorDevvs/factory-api/internal/domain/repository"
	"github.com/VictorDevvs/factory-api/internal/infrastructure/memory"
	"github.com/VictorDevvs/factory-api/pkg/logger"
)

func newImporter() (*catalog.CsvImportUseCase, *memory.Store) {
	store := memory.NewStore()
	return catalog.NewCsvImportUseCase(store, logger.Nop()), store
}

func stockOf(t *testing.T, store *memory.Store, code string) decimal.Decimal {
	t.Helper()
	m, err := store.RawMaterials().GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, m, "materia prima %s debe existir", code)
	return m.StockQuantity
}

func TestImportRawMaterials_ArchivoVacio(t *testing.T) {
	uc, _ := newImporter()
	_, err := uc.ImportRawMaterials(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyFile)
}

func TestImportRawMaterials_SoloCabecera(t *testing.T) {
	uc, _ := newImporter()
	out, err := uc.ImportRawMaterials(context.Background(), []byte("code,name,stockQuantity,unit\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, out.RecordsImported)
	assert.False(t, out.HasErrors())
}

func TestImportRawMaterials_LineasValidasEInvalidas(t *testing.T) {
	csv := "code,name,stockQuantity,unit\n" +
		"FL, Harina ,2500.5,g\n" +
		"SG,Azúcar,abc,g\n" +
		",Sin código,1,g\n" +
		"EG,Huevo,-1,un\n" +
		"XX,Corta\n" +
		"BT,Mantequilla,300,g,extra\n"

	uc, store := newImporter()
	out, err := uc.ImportRawMaterials(context.Background(), []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, out.RecordsImported)
	assert.Equal(t, 4, out.RecordsSkipped)
	assert.Equal(t, []string{
		"línea 3: stockQuantity inválido: 'abc'",
		"línea 4: code es requerido",
		"línea 5: stockQuantity debe ser >= 0",
		"línea 6: se esperaban 4 columnas (code, name, stockQuantity, unit), llegaron 2",
	}, out.Errors)

	assert.True(t, stockOf(t, store, "FL").Equal(decimal.RequireFromString("2500.5")))
	assert.True(t, stockOf(t, store, "BT").Equal(decimal.NewFromInt(300)))

	fl, _ := store.RawMaterials().GetByCode(context.Background(), "FL")
	assert.Equal(t, "Harina", fl.Name)
}

func TestImportRawMaterials_LineaVaciaConservaNumeracion(t *testing.T) {
	csv := "code,name,stockQuantity,unit\n" +
		"\n" +
		"X,,1,kg\n" +
		"FL,Harina,10,g\n"

	uc, store := newImporter()
	out, err := uc.ImportRawMaterials(context.Background(), []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, out.RecordsImported)
	assert.Equal(t, 2, out.RecordsSkipped)
	assert.Equal(t, []string{
		"línea 2: se esperaban 4 columnas (code, name, stockQuantity, unit), llegaron 1",
		"línea 3: name es requerido",
	}, out.Errors)
	assert.True(t, stockOf(t, store, "FL").Equal(decimal.NewFromInt(10)))
}

func TestImportRawMaterials_LineasVaciasAlFinalYCRLF(t *testing.T) {
	csv := "code,name,stockQuantity,unit\r\n" +
		"FL,Harina,10,g\r\n" +
		"\r\n" +
		"SG,Azúcar,abc,g\r\n" +
		"\r\n"

	uc, _ := newImporter()
	out, err := uc.ImportRawMaterials(context.Background(), []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, out.RecordsImported)
	assert.Equal(t, []string{
		"línea 3: se esperaban 4 columnas (code, name, stockQuantity, unit), llegaron 1",
		"línea 4: stockQuantity inválido: 'abc'",
		"línea 5: se esperaban 4 columnas (code, name, stockQuantity, unit), llegaron 1",
	}, out.Errors)
}

func TestImportRawMaterials_CampoMultilineaNoDesplazaLineas(t *testing.T) {
	csv := "code,name,stockQuantity,unit\n" +
		"FL,\"Harina\ntipo 000\",10,g\n" +
		"SG,,1,g\n"

	uc, _ := newImporter()
	out, err := uc.ImportRawMaterials(context.Background(), []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, out.RecordsImported)
	assert.Equal(t, []string{"línea 4: name es requerido"}, out.Errors)
}

func TestImportRawMaterials_UpsertPorCodigo(t *testing.T) {
	ctx := context.Background()
	uc, store := newImporter()
	require.NoError(t, store.RawMaterials().Create(ctx, &entity.RawMaterial{
		ID: "m1", Code: "FL", Name: "Harina", StockQuantity: decimal.NewFromInt(1), Unit: "g",
	}))

	out, err := uc.ImportRawMaterials(ctx, []byte("code,name,stockQuantity,unit\nFL,Harina 000,900,kg\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, out.RecordsImported)

	m, err := store.RawMaterials().GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Harina 000", m.Name)
	assert.Equal(t, "kg", m.Unit)
	assert.True(t, m.StockQuantity.Equal(decimal.NewFromInt(900)))

	all, err := store.RawMaterials().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestImportRawMaterials_BOMUTF8(t *testing.T) {
	uc, store := newImporter()
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("code,name,stockQuantity,unit\nFL,Harina,10,g\n")...)

	out, err := uc.ImportRawMaterials(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, out.RecordsImported)
	assert.True(t, stockOf(t, store, "FL").Equal(decimal.NewFromInt(10)))
}

func TestImportRawMaterials_Latin1(t *testing.T) {
	uc, store := newImporter()
	// "Azúcar" en ISO-8859-1: ú = 0xFA
	data := []byte("code,name,stockQuantity,unit\nSG,Az\xfacar,5,g\n")

	out, err := uc.ImportRawMaterials(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, out.RecordsImported)

	m, err := store.RawMaterials().GetByCode(context.Background(), "SG")
	require.NoError(t, err)
	assert.Equal(t, "Azúcar", m.Name)
}

func TestImportRawMaterials_CSVMalformado(t *testing.T) {
	uc, store := newImporter()
	data := []byte("code,name,stockQuantity,unit\nFL,Harina,10,g\nSG,\"Azúcar,5,g\n")

	out, err := uc.ImportRawMaterials(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, out.RecordsImported)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "formato CSV inválido")
	assert.True(t, stockOf(t, store, "FL").Equal(decimal.NewFromInt(10)))
}

// failingRunner simula una falla de persistencia a mitad del import.
type failingRunner struct {
	store *memory.Store
	err   error
}

func (f failingRunner) Run(ctx context.Context, fn func(repository.RawMaterialRepository, repository.ProductRepository) error) error {
	return f.store.Run(ctx, func(raw repository.RawMaterialRepository, products repository.ProductRepository) error {
		return fn(failingRawRepo{RawMaterialRepository: raw, err: f.err}, products)
	})
}

type failingRawRepo struct {
	repository.RawMaterialRepository
	err error
}

func (f failingRawRepo) UpsertByCode(context.Context, *entity.RawMaterial) error { return f.err }

func TestImportRawMaterials_ErrorDePersistenciaAborta(t *testing.T) {
	store := memory.NewStore()
	boom := errors.New("db caída")
	uc := catalog.NewCsvImportUseCase(failingRunner{store: store, err: boom}, logger.Nop())

	out, err := uc.ImportRawMaterials(context.Background(), []byte("code,name,stockQuantity,unit\nFL,Harina,10,g\n"))
	assert.Nil(t, out)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "línea 2")
}
