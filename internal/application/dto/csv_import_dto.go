package dto

// CsvImportResponse resultado de la importación de materias primas.
type CsvImportResponse struct {
	RecordsImported int      `json:"records_imported"`
	RecordsSkipped  int      `json:"records_skipped"`
	Errors          []string `json:"errors"`
}

// HasErrors indica si alguna línea fue rechazada o el archivo no pudo leerse completo.
func (r *CsvImportResponse) HasErrors() bool {
	return len(r.Errors) > 0
}
