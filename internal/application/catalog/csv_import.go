package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/internal/domain"
	"github.com/VictorDevvs/factory-api/internal/domain/entity"
	"github.com/VictorDevvs/factory-api/internal/domain/repository"
	"github.com/VictorDevvs/factory-api/pkg/logger"
)

// Columnas esperadas: code,name,stockQuantity,unit (la primera fila es cabecera).
const csvColumns = 4

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CsvImportUseCase importa materias primas desde CSV haciendo upsert por código.
// Las líneas inválidas se omiten y se reportan; las válidas se guardan en una sola transacción.
type CsvImportUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewCsvImportUseCase construye el caso de uso.
func NewCsvImportUseCase(txRunner TxRunner, log *logger.Logger) *CsvImportUseCase {
	return &CsvImportUseCase{txRunner: txRunner, log: log.Component("csv_import")}
}

// ImportRawMaterials procesa el contenido completo del archivo.
// Devuelve domain.ErrEmptyFile si data está vacío; errores de persistencia abortan todo el import.
func (uc *CsvImportUseCase) ImportRawMaterials(ctx context.Context, data []byte) (*dto.CsvImportResponse, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptyFile
	}

	text, err := io.ReadAll(decodeCSV(data))
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}

	out := &dto.CsvImportResponse{Errors: []string{}}
	reject := func(line int, reason error) {
		uc.log.Warn().Int("line", line).Str("reason", reason.Error()).Msg("línea omitida")
		out.Errors = append(out.Errors, fmt.Sprintf("línea %d: %s", line, reason.Error()))
		out.RecordsSkipped++
	}
	// encoding/csv salta las líneas vacías; se reportan como registros de una sola columna.
	rejectBlank := func(from, to int) {
		for line := from; line < to; line++ {
			_, perr := parseRecord([]string{""})
			reject(line, perr)
		}
	}

	err = uc.txRunner.Run(ctx, func(rawRepo repository.RawMaterialRepository, _ repository.ProductRepository) error {
		reader := csv.NewReader(bytes.NewReader(text))
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true

		if _, err := reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			out.Errors = append(out.Errors, "formato CSV inválido: "+err.Error())
			return nil
		}
		// consumed: líneas completas ya leídas (cabecera incluida).
		consumed := linesBefore(text, reader.InputOffset())

		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				rejectBlank(consumed+1, bytes.Count(text, []byte{'\n'})+1)
				return nil
			}
			if err != nil {
				out.Errors = append(out.Errors, "formato CSV inválido: "+err.Error())
				return nil
			}

			lineNumber, _ := reader.FieldPos(0)
			rejectBlank(consumed+1, lineNumber)
			consumed = linesBefore(text, reader.InputOffset())

			material, perr := parseRecord(record)
			if perr != nil {
				reject(lineNumber, perr)
				continue
			}
			if err := rawRepo.UpsertByCode(ctx, material); err != nil {
				return fmt.Errorf("línea %d: %w", lineNumber, err)
			}
			out.RecordsImported++
		}
	})
	if err != nil {
		uc.log.Error().Err(err).Msg("falló la importación CSV")
		return nil, err
	}

	uc.log.Info().
		Int("imported", out.RecordsImported).
		Int("skipped", out.RecordsSkipped).
		Msg("importación CSV finalizada")
	return out, nil
}

// decodeCSV quita el BOM UTF-8; si el contenido no es UTF-8 válido lo lee como ISO-8859-1.
func decodeCSV(data []byte) io.Reader {
	if bytes.HasPrefix(data, utf8BOM) {
		return bytes.NewReader(data[len(utf8BOM):])
	}
	if utf8.Valid(data) {
		return bytes.NewReader(data)
	}
	return transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder())
}

// linesBefore cuenta los saltos de línea en text[:offset].
func linesBefore(text []byte, offset int64) int {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	return bytes.Count(text[:offset], []byte{'\n'})
}

func parseRecord(columns []string) (*entity.RawMaterial, error) {
	if len(columns) < csvColumns {
		return nil, fmt.Errorf("se esperaban %d columnas (code, name, stockQuantity, unit), llegaron %d", csvColumns, len(columns))
	}
	code := strings.TrimSpace(columns[0])
	name := strings.TrimSpace(columns[1])
	quantityRaw := strings.TrimSpace(columns[2])
	unit := strings.TrimSpace(columns[3])

	if code == "" {
		return nil, errors.New("code es requerido")
	}
	if name == "" {
		return nil, errors.New("name es requerido")
	}
	if unit == "" {
		return nil, errors.New("unit es requerido")
	}
	quantity, err := decimal.NewFromString(quantityRaw)
	if err != nil {
		return nil, fmt.Errorf("stockQuantity inválido: '%s'", quantityRaw)
	}
	if quantity.IsNegative() {
		return nil, errors.New("stockQuantity debe ser >= 0")
	}

	now := time.Now()
	return &entity.RawMaterial{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          name,
		StockQuantity: quantity,
		Unit:          unit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
