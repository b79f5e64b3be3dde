package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los mensajes usan el nombre JSON del campo (vendedorId, productos, ...).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate valida obj con sus tags `validate` y devuelve el primer fallo como domain.ErrInvalidInput
// con un mensaje legible para el cliente.
func Validate(obj any) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return domain.Invalid("%s", validationMessage(verrs[0]))
	}
	return domain.Invalid("validación: %v", err)
}

func validationMessage(fe validator.FieldError) string {
	// Namespace sin el nombre del struct raíz: "vendedorId", "productos[0].precio".
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s no puede estar vacío", field)
		}
		return fmt.Sprintf("%s debe ser al menos %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s es inválido", field)
	}
}
