package infra

// pdf.go: operation receipt generated with go-pdf/fpdf.
// Thermal-paper sized page with:
//   - shop name header
//   - receipt number, date and operator
//   - client and document, when present
//   - amount, fee and net lines with the net amount in bold

import (
	"bytes"
	"fmt"

	"straublot/internal/model"

	"github.com/go-pdf/fpdf"
)

// GerarComprovantePDF renders a receipt for op and returns the PDF bytes.
func GerarComprovantePDF(op model.Operacao, nomeLoja, numero string) ([]byte, error) {
	// 80mm roll, height generous enough for every optional line
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: 140},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()

	// core fonts are cp1252; translate accents
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(nomeLoja), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr("Comprovante de Operação - Caixa Interno"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr("Nº "+numero), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("%s  %s", op.Data, op.Hora), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Operador: "+op.Operador), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Operation ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, tr(op.TipoRotulo), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	if op.Cliente != "" {
		pdf.CellFormat(contentW, 4, tr("Cliente: "+op.Cliente), "", 1, "L", false, 0, "")
	}
	if op.CPFCNPJ != "" {
		pdf.CellFormat(contentW, 4, "CPF/CNPJ: "+op.CPFCNPJ, "", 1, "L", false, 0, "")
	}
	if op.DataVencimentoCheque != "" {
		pdf.CellFormat(contentW, 4, "Vencimento: "+op.DataVencimentoCheque, "", 1, "L", false, 0, "")
	}
	if op.TaxaPercentual != "" {
		pdf.CellFormat(contentW, 4, "Taxa: "+op.TaxaPercentual+"%", "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	col1 := contentW * 0.55
	col2 := contentW * 0.45
	linha := func(rotulo, valor string) {
		pdf.CellFormat(col1, 5, tr(rotulo), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, tr(valor), "", 1, "R", false, 0, "")
	}
	linha("Valor bruto:", model.FormatarReais(op.ValorBruto))
	linha("Taxa:", model.FormatarReais(op.TaxaCliente))

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	linha("Valor líquido:", model.FormatarReais(op.ValorLiquido))

	if op.Observacoes != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.MultiCell(contentW, 4, tr(op.Observacoes), "", "L", false)
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "________________________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, "Assinatura do cliente", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
