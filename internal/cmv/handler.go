package cmv

import (
	"fmt"
	"time"

	"donmenu-backend/internal/auth"
	"donmenu-backend/internal/costing"
	"donmenu-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ProductCMVResponse struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Vendas      int             `json:"vendas"`
	Faturamento decimal.Decimal `json:"faturamento"`
	CustoTotal  decimal.Decimal `json:"custo_total"`
	CMV         decimal.Decimal `json:"cmv"`
}

type SummaryResponse struct {
	From        string               `json:"from"`
	To          string               `json:"to"`
	Faturamento decimal.Decimal      `json:"faturamento"`
	CustoTotal  decimal.Decimal      `json:"custo_total"`
	CMVGeral    decimal.Decimal      `json:"cmv_geral"`
	Products    []ProductCMVResponse `json:"products"`
}

// periodFromQuery interpreta from/to (YYYY-MM-DD, to inclusivo). Sem
// parâmetros, usa o mês corrente.
func periodFromQuery(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Data inicial inválida, use AAAA-MM-DD")
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Data final inválida, use AAAA-MM-DD")
		}
		to = t.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Período inválido")
	}
	return from, to, nil
}

func toSummaryResponse(report *costing.CMVReport, from, to time.Time) SummaryResponse {
	resp := SummaryResponse{
		From:        from.Format("2006-01-02"),
		To:          to.AddDate(0, 0, -1).Format("2006-01-02"),
		Faturamento: report.Faturamento,
		CustoTotal:  report.CustoTotal,
		CMVGeral:    report.CMVGeral,
		Products:    make([]ProductCMVResponse, 0, len(report.Products)),
	}
	for _, p := range report.Products {
		resp.Products = append(resp.Products, ProductCMVResponse{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Vendas:      p.Vendas,
			Faturamento: p.Faturamento,
			CustoTotal:  p.CustoTotal,
			CMV:         p.CMV,
		})
	}
	return resp
}

// GET /api/cmv/summary?from=&to=
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		from, to, err := periodFromQuery(c)
		if err != nil {
			return err
		}

		report, err := ReportForPeriod(restaurantID, from, to)
		if err != nil {
			logger.LogError("cmv", "SummaryHandler", "falha ao montar relatório", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o relatório de CMV")
		}

		return c.JSON(toSummaryResponse(report, from, to))
	}
}

// GET /api/cmv/export?from=&to= - planilha xlsx do mesmo relatório
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantIDForRequest(c, nil)
		if err != nil {
			return err
		}

		from, to, err := periodFromQuery(c)
		if err != nil {
			return err
		}

		report, err := ReportForPeriod(restaurantID, from, to)
		if err != nil {
			logger.LogError("cmv", "ExportHandler", "falha ao montar relatório", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o relatório de CMV")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "CMV"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Produto", "Unidades", "Faturamento", "Custo", "CMV %"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		row := 2
		for _, p := range report.Products {
			values := []any{
				p.ProductName,
				p.Vendas,
				p.Faturamento.InexactFloat64(),
				p.CustoTotal.InexactFloat64(),
				p.CMV.Round(2).InexactFloat64(),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}

		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), report.Faturamento.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), report.CustoTotal.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), report.CMVGeral.Round(2).InexactFloat64())

		buf, err := f.WriteToBuffer()
		if err != nil {
			logger.LogError("cmv", "ExportHandler", "falha ao gerar planilha", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar a planilha")
		}

		filename := fmt.Sprintf("cmv_%s_%s.xlsx",
			from.Format("2006-01-02"), to.AddDate(0, 0, -1).Format("2006-01-02"))
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(buf.Bytes())
	}
}
