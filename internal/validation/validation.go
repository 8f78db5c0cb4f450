// Package validation concentra a validação estrutural dos payloads de
// entrada, feita uma vez na borda HTTP em vez de espalhada pelo cálculo.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct valida as tags `validate` do DTO e devolve uma mensagem única
// legível para o cliente.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("campo %s é obrigatório", fe.Field())
	case "email":
		return fmt.Sprintf("campo %s deve ser um e-mail válido", fe.Field())
	case "min":
		return fmt.Sprintf("campo %s deve ser no mínimo %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("campo %s deve ser no máximo %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("campo %s deve ser um de: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("campo %s é inválido (%s)", fe.Field(), fe.Tag())
	}
}
