package cmv

import (
	"time"

	"donmenu-backend/internal/costing"
	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"
)

// comboKeyOffset separa combos de itens de cardápio no agrupamento do
// relatório, já que ambos vivem em tabelas com IDs independentes.
const comboKeyOffset uint = 1_000_000_000

// linesForPeriod carrega as linhas de vendas pagas do período e as converte
// para a entrada do motor de CMV. Vendas abertas e canceladas ficam de fora.
func linesForPeriod(restaurantID uint, from, to time.Time) ([]costing.SaleLineInput, error) {
	var sales []models.Sale
	err := database.DB.Preload("Lines").
		Where("restaurant_id = ? AND status = ? AND date >= ? AND date < ?",
			restaurantID, models.SaleStatusPaid, from, to).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}

	inputs := make([]costing.SaleLineInput, 0)
	for _, sale := range sales {
		for _, line := range sale.Lines {
			input := costing.SaleLineInput{
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				CostPrice:   line.CostPrice,
			}
			switch {
			case line.MenuItemID != nil:
				input.ProductID = *line.MenuItemID
			case line.ComboID != nil:
				input.ProductID = comboKeyOffset + *line.ComboID
			}
			inputs = append(inputs, input)
		}
	}
	return inputs, nil
}

// ReportForPeriod monta o relatório de CMV do período [from, to).
func ReportForPeriod(restaurantID uint, from, to time.Time) (*costing.CMVReport, error) {
	lines, err := linesForPeriod(restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	return costing.ComputeCMV(lines), nil
}
