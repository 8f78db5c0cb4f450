// Package httperr traduz os erros tipados do motor de custos para erros
// HTTP do fiber, num lugar só, para os handlers não vazarem detalhe interno.
package httperr

import (
	"errors"

	"donmenu-backend/internal/costing"
	"donmenu-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// FromCosting mapeia ValidationError→400 e NotFoundError→404. Qualquer
// outro erro é infraestrutura: loga e devolve 500 genérico.
func FromCosting(err error) error {
	var ve *costing.ValidationError
	if errors.As(err, &ve) {
		return fiber.NewError(fiber.StatusBadRequest, ve.Error())
	}

	var nf *costing.NotFoundError
	if errors.As(err, &nf) {
		return fiber.NewError(fiber.StatusNotFound, nf.Error())
	}

	logger.LogError("httperr", "FromCosting", "erro inesperado do motor de custos", err)
	return fiber.NewError(fiber.StatusInternalServerError, "Erro inesperado no cálculo")
}
