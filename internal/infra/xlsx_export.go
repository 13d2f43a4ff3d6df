package infra

import (
	"fmt"

	"straublot/internal/model"

	"github.com/xuri/excelize/v2"
)

const abaExportacao = "Operacoes"

var colunasMoeda = map[string]bool{
	model.ColValorBruto:   true,
	model.ColTaxaCliente:  true,
	model.ColTaxaBanco:    true,
	model.ColValorLiquido: true,
	model.ColLucro:        true,
}

// ExportarOperacoesXLSX writes ops to a new workbook: the worksheet's header
// plus its line number, money as numeric cells.
func ExportarOperacoesXLSX(ops []model.Operacao) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), abaExportacao); err != nil {
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	moeda, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	cab := append([]interface{}{"Linha"}, paraInterfaces(model.ColunasOperacoes)...)
	if err := f.SetSheetRow(abaExportacao, "A1", &cab); err != nil {
		return nil, err
	}
	ultima, _ := excelize.CoordinatesToCellName(len(cab), 1)
	if err := f.SetCellStyle(abaExportacao, "A1", ultima, bold); err != nil {
		return nil, err
	}

	for i, op := range ops {
		reg := op.Registro()
		linha := make([]interface{}, 0, len(cab))
		linha = append(linha, op.Linha)
		for _, col := range model.ColunasOperacoes {
			if colunasMoeda[col] {
				linha = append(linha, model.ParseValor(reg[col]).InexactFloat64())
				continue
			}
			linha = append(linha, reg[col])
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(abaExportacao, cell, &linha); err != nil {
			return nil, fmt.Errorf("xlsx: write row %d: %w", i+2, err)
		}
	}

	if len(ops) > 0 {
		for col := range model.ColunasOperacoes {
			if !colunasMoeda[model.ColunasOperacoes[col]] {
				continue
			}
			ini, _ := excelize.CoordinatesToCellName(col+2, 2)
			fim, _ := excelize.CoordinatesToCellName(col+2, len(ops)+1)
			if err := f.SetCellStyle(abaExportacao, ini, fim, moeda); err != nil {
				return nil, err
			}
		}
	}
	_ = f.SetPanes(abaExportacao, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func paraInterfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
