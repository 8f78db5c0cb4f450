package costing

import (
	"sort"

	"github.com/shopspring/decimal"
)

type SaleLineInput struct {
	ProductID   uint
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	CostPrice   decimal.Decimal
}

type ProductCMV struct {
	ProductID   uint
	ProductName string
	Vendas      int // unidades vendidas
	Faturamento decimal.Decimal
	CustoTotal  decimal.Decimal
	CMV         decimal.Decimal
}

type CMVReport struct {
	Faturamento decimal.Decimal
	CustoTotal  decimal.Decimal
	CMVGeral    decimal.Decimal
	Products    []ProductCMV
}

// ComputeCMV agrega custo sobre faturamento das linhas de venda, no geral e
// por produto. Entrada vazia devolve tudo zerado, nunca erro: relatório de
// CMV precisa degradar quando ainda não existem vendas. Produtos vêm
// ordenados por unidades vendidas, do maior para o menor.
func ComputeCMV(lines []SaleLineInput) *CMVReport {
	report := &CMVReport{
		Faturamento: decimal.Zero,
		CustoTotal:  decimal.Zero,
		CMVGeral:    decimal.Zero,
		Products:    []ProductCMV{},
	}

	groups := make(map[uint]*ProductCMV)
	order := make([]uint, 0)

	for _, line := range lines {
		quantity := decimal.NewFromInt(int64(line.Quantity))
		revenue := line.UnitPrice.Mul(quantity)
		cost := line.CostPrice.Mul(quantity)

		report.Faturamento = report.Faturamento.Add(revenue)
		report.CustoTotal = report.CustoTotal.Add(cost)

		group, ok := groups[line.ProductID]
		if !ok {
			group = &ProductCMV{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Faturamento: decimal.Zero,
				CustoTotal:  decimal.Zero,
			}
			groups[line.ProductID] = group
			order = append(order, line.ProductID)
		}
		group.Vendas += line.Quantity
		group.Faturamento = group.Faturamento.Add(revenue)
		group.CustoTotal = group.CustoTotal.Add(cost)
	}

	if report.Faturamento.GreaterThan(decimal.Zero) {
		report.CMVGeral = report.CustoTotal.Div(report.Faturamento).Mul(hundred)
	}

	for _, id := range order {
		group := groups[id]
		if group.Faturamento.GreaterThan(decimal.Zero) {
			group.CMV = group.CustoTotal.Div(group.Faturamento).Mul(hundred)
		} else {
			group.CMV = decimal.Zero
		}
		report.Products = append(report.Products, *group)
	}

	// Mais vendidos primeiro; desempate por nome para saída estável
	sort.SliceStable(report.Products, func(i, j int) bool {
		if report.Products[i].Vendas != report.Products[j].Vendas {
			return report.Products[i].Vendas > report.Products[j].Vendas
		}
		return report.Products[i].ProductName < report.Products[j].ProductName
	})

	return report
}
