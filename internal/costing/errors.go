package costing

import "fmt"

// ValidationError - entrada malformada ou fora de faixa (quantidade não
// positiva, margem >= 100, lista de itens vazia).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError - referência que não resolve dentro do escopo do restaurante.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d não encontrado", e.Entity, e.ID)
}
