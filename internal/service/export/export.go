// Package export renders the inventory as downloadable spreadsheet and PDF documents.
package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
	"github.com/lamic-ufsm/patrimonio/pkg/currency"
)

const (
	SpreadsheetFilename = "inventario_lamic.xlsx"
	SpreadsheetMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	DocumentFilename    = "relatorio_lamic.pdf"
	DocumentMIME        = "application/pdf"

	sheetName     = "Inventário"
	documentTitle = "Relatório de Patrimônio - LAMIC"
	maxNameRunes  = 30
)

var spreadsheetHeader = []interface{}{
	"Patrimônio LAMIC", "Patrimônio UFSM", "Nome/Descrição", "Sala", "Quantidade", "Valor Total (R$)",
}

var columnWidths = []struct {
	first, last string
	width       float64
}{
	{"A", "B", 18},
	{"C", "C", 40},
	{"D", "D", 22},
	{"E", "F", 16},
}

// Spreadsheet renders the records into an XLSX workbook.
func Spreadsheet(records []models.AssetRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &spreadsheetHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{r.AssetNumberPrimary, r.AssetNumberSecondary, r.Name, r.Room, r.Quantity, r.TotalValue}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, style); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}
	for _, w := range columnWidths {
		if err := f.SetColWidth(sheetName, w.first, w.last, w.width); err != nil {
			return nil, fmt.Errorf("set width of %s:%s: %w", w.first, w.last, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Document renders the records into an A4 PDF report.
func Document(records []models.AssetRecord) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(documentTitle, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, tr(documentTitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{32, 62, 40, 16, 40}
	header := []string{"Patrimônio", "Nome", "Sala", "Qtd", "Valor"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	for i, h := range header {
		pdf.CellFormat(widths[i], 9, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, r := range records {
		cells := []string{
			r.AssetNumberPrimary,
			truncate(r.Name, maxNameRunes),
			r.Room,
			strconv.Itoa(r.Quantity),
			currency.Format(r.TotalValue),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 8, tr(c), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
