package infra

// pdf.go: liquidación document generation using go-pdf/fpdf.
// A4 portrait with:
//   - Company header (from configuracion)
//   - Liquidación number, fecha, estado and cliente block
//   - One table per rollo with its espigas and the rollo consumption
//   - Summary: metros iniciales, consumo total, diferencia
//
// Totals are computed with the calculo package so the document always matches the API.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"liquidaciontextil/internal/calculo"
	"liquidaciontextil/internal/model"

	"github.com/go-pdf/fpdf"
)

// LiquidacionPDF is everything the document needs. Liquidacion must carry
// Cliente and Rollos.Espigas already loaded and ordered.
type LiquidacionPDF struct {
	Liquidacion *model.Liquidacion
	Empresa     *model.Configuracion
}

// RenderLiquidacionPDF writes the document to w.
func RenderLiquidacionPDF(w io.Writer, doc LiquidacionPDF) error {
	if doc.Liquidacion == nil {
		return fmt.Errorf("pdf: liquidacion requerida")
	}
	pdf := buildLiquidacionPDF(doc)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render: %w", err)
	}
	return nil
}

// GenerateLiquidacionPDF writes the document to storagePath/liquidacion_{numero}.pdf
// (directory created if needed) and returns the file path.
func GenerateLiquidacionPDF(doc LiquidacionPDF, storagePath string) (string, error) {
	if doc.Liquidacion == nil {
		return "", fmt.Errorf("pdf: liquidacion requerida")
	}
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("liquidacion_%s.pdf", doc.Liquidacion.Numero))

	pdf := buildLiquidacionPDF(doc)
	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func buildLiquidacionPDF(doc LiquidacionPDF) *fpdf.Fpdf {
	liq := doc.Liquidacion

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle("Liquidacion "+liq.Numero, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252, core fonts have no UTF-8

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	if e := doc.Empresa; e != nil {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(contentW, 7, tr(e.NombreEmpresa), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		for _, linea := range []*string{e.NIT, e.Direccion, e.Telefono} {
			if linea != nil && *linea != "" {
				pdf.CellFormat(contentW, 4, tr(*linea), "", 1, "C", false, 0, "")
			}
		}
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr("Liquidación N° "+liq.Numero), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 5, "Fecha: "+liq.Fecha.Format("02/01/2006"), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "Estado: "+string(liq.Estado), "", 1, "R", false, 0, "")
	if liq.Cliente != nil {
		pdf.CellFormat(contentW, 5, tr("Cliente: "+liq.Cliente.Nombre), "", 1, "L", false, 0, "")
		if liq.Cliente.NIT != nil {
			pdf.CellFormat(contentW, 5, "NIT: "+*liq.Cliente.NIT, "", 1, "L", false, 0, "")
		}
	}
	if liq.OrdenProduccion != nil {
		pdf.CellFormat(contentW, 5, tr("Orden de producción: "+*liq.OrdenProduccion), "", 1, "L", false, 0, "")
	}
	if liq.Referencia != nil {
		pdf.CellFormat(contentW, 5, tr("Referencia: "+*liq.Referencia), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Rollos ───────────────────────────────────────────────────────────────
	col := contentW / 4
	for _, rollo := range liq.Rollos {
		pdf.SetFont("Helvetica", "B", 9)
		titulo := fmt.Sprintf("Rollo %d: %s (%s) - %s m", rollo.Numero, rollo.ColorTela, rollo.ColorHex, rollo.MetrosIniciales.StringFixed(2))
		pdf.CellFormat(contentW, 6, tr(titulo), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(col, 5, "Espiga", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col, 5, "Largo trazo", "B", 0, "R", false, 0, "")
		pdf.CellFormat(col, 5, "Capas", "B", 0, "R", false, 0, "")
		pdf.CellFormat(col, 5, "Consumo", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for _, e := range rollo.Espigas {
			consumo := calculo.ConsumoRollo([]model.Espiga{e})
			pdf.CellFormat(col, 5, fmt.Sprintf("%d", e.Numero), "", 0, "L", false, 0, "")
			pdf.CellFormat(col, 5, e.LargoTrazo.String(), "", 0, "R", false, 0, "")
			pdf.CellFormat(col, 5, fmt.Sprintf("%d", e.NumeroCapas), "", 0, "R", false, 0, "")
			pdf.CellFormat(col, 5, calculo.Redondear(consumo).StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(col*3, 5, "Consumo del rollo:", "T", 0, "R", false, 0, "")
		pdf.CellFormat(col, 5, calculo.Redondear(calculo.ConsumoRollo(rollo.Espigas)).StringFixed(2), "T", 1, "R", false, 0, "")
		pdf.Ln(3)
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	tot := calculo.TotalesLiquidacion(liq.Rollos)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(col*3, 6, "Metros iniciales:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col, 6, tot.MetrosIniciales.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col*3, 6, "Consumo total:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col, 6, tot.ConsumoTotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col*3, 7, "Diferencia:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col, 7, tot.Diferencia.StringFixed(2), "", 1, "R", false, 0, "")

	if liq.Observaciones != nil && *liq.Observaciones != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, tr("Observaciones: "+*liq.Observaciones), "", "L", false)
	}
	return pdf
}
