package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrEmptyFile    = errors.New("archivo vacío")
)

// NotFoundError indica qué recurso no existe. errors.Is(err, ErrNotFound) es true.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no se encontró %s con id: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound construye un NotFoundError.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError agrupa errores de campo ("campo: motivo"). errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	return strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidation construye un ValidationError con los campos indicados.
func NewValidation(fields ...string) error {
	return &ValidationError{Fields: fields}
}
