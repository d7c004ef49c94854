package purchase

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet      = "Purchases"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportTimeLayout = "2006-01-02 15:04:05"
)

var exportHeader = []any{"ID", "Product", "Quantity", "Unit Price", "Total Price", "Status", "Created At"}

// WriteXLSX writes the purchase details as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []Detail) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.ID,
			r.ProductName,
			r.Quantity,
			r.UnitPrice().InexactFloat64(),
			r.TotalPrice.InexactFloat64(),
			string(r.Status),
			r.CreatedAt.Local().Format(exportTimeLayout),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// GET /api/purchases/export?status=confirmed
func ExportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := parseListFilter(c)
		if err != nil {
			return err
		}
		rows, err := svc.List(c.UserContext(), f)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := WriteXLSX(&buf, rows); err != nil {
			return fmt.Errorf("build purchase export: %w", err)
		}

		name := fmt.Sprintf("purchases-%s.xlsx", time.Now().Format("20060102"))
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
		return c.Send(buf.Bytes())
	}
}
