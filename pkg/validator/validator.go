// Package validator envuelve go-playground/validator con las reglas propias
// de la aplicación (mínimos sobre decimal.Decimal) y mensajes por campo.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator valida structs con tags `validate`.
type Validator struct {
	validate *playground.Validate
}

// New crea un validador con las reglas personalizadas registradas:
//
//	dmin=0.01  el decimal debe ser >= 0.01
//	dgte0      el decimal debe ser >= 0
func New() *Validator {
	v := playground.New(playground.WithRequiredStructEnabled())

	// Nombres de campo según el tag json para que los mensajes coincidan con el cuerpo HTTP.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "dmin", decimalMin)
	mustRegister(v, "dgte0", func(fl playground.FieldLevel) bool {
		d, ok := asDecimal(fl.Field())
		return ok && !d.IsNegative()
	})

	return &Validator{validate: v}
}

// mustRegister entra en pánico si la regla no se puede registrar; un tag
// inválido no debe quedar como una regla que nunca falla.
func mustRegister(v *playground.Validate, tag string, fn playground.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: registrar %q: %v", tag, err))
	}
}

// Struct valida s y devuelve un error con un mensaje por campo ("campo: regla").
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return FieldErrors(Messages(verrs))
}

// FieldErrors lista de mensajes por campo.
type FieldErrors []string

func (f FieldErrors) Error() string { return strings.Join(f, ", ") }

// Messages traduce los errores de validación a mensajes legibles.
func Messages(verrs playground.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, fmt.Sprintf("%s: %s", fieldPath(e), describe(e)))
	}
	return out
}

func fieldPath(e playground.FieldError) string {
	// Namespace incluye el struct raíz ("ProductRequest.compositions[0].raw_material_id").
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func describe(e playground.FieldError) string {
	switch e.Tag() {
	case "required", "required_without":
		return "es requerido"
	case "dmin":
		return "debe ser mayor o igual a " + e.Param()
	case "dgte0":
		return "debe ser mayor o igual a 0"
	case "min":
		if e.Kind() == reflect.Slice {
			return "debe tener al menos " + e.Param() + " elemento(s)"
		}
		return "debe ser mayor o igual a " + e.Param()
	case "max":
		return "debe ser menor o igual a " + e.Param()
	case "oneof":
		return "debe ser uno de [" + e.Param() + "]"
	default:
		return "no cumple la regla " + e.Tag()
	}
}

func decimalMin(fl playground.FieldLevel) bool {
	d, ok := asDecimal(fl.Field())
	if !ok {
		return false
	}
	limit, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	return d.GreaterThanOrEqual(limit)
}

func asDecimal(field reflect.Value) (decimal.Decimal, bool) {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return decimal.Decimal{}, false
		}
		field = field.Elem()
	}
	d, ok := field.Interface().(decimal.Decimal)
	return d, ok
}
