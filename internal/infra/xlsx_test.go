package infra

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"straublot/internal/model"
	"straublot/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook_CicloCompletoPersisteEmDisco(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dados", "loterica.xlsx")

	w, err := OpenWorkbook(path)
	require.NoError(t, err)

	rows, err := w.GetRows(ctx, model.TabelaOperacoes)
	require.NoError(t, err)
	assert.Empty(t, rows, "missing worksheet reads as no data")

	require.NoError(t, w.EnsureTable(ctx, model.TabelaOperacoes, model.ColunasOperacoes))
	require.NoError(t, w.EnsureTable(ctx, "Outra", []string{"A", "B"}))
	require.NoError(t, w.AppendRow(ctx, model.TabelaOperacoes, model.Registro{
		model.ColData: "19/10/2026", model.ColTipoOperacao: "Suprimento", model.ColValorBruto: "5000.00",
	}))
	require.NoError(t, w.Close())

	// Reopen from disk.
	w2, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer w2.Close()

	rows, err = w2.GetRows(ctx, model.TabelaOperacoes)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "5000.00", rows[0][model.ColValorBruto])
	assert.Equal(t, "Suprimento", rows[0][model.ColTipoOperacao])
	assert.Equal(t, "", rows[0][model.ColCliente])

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{model.TabelaOperacoes, "Outra"}, f.GetSheetList())
}

func TestWorkbook_AppendSemAbaFalha(t *testing.T) {
	w, err := OpenWorkbook(filepath.Join(t.TempDir(), "x.xlsx"))
	require.NoError(t, err)
	err = w.AppendRow(context.Background(), "Nada", model.Registro{"A": "1"})
	assert.ErrorIs(t, err, repository.ErrTabelaNaoProvisionada)
}

func TestWorkbook_EnsureTableNaoReescreveCabecalho(t *testing.T) {
	ctx := context.Background()
	w, err := OpenWorkbook(filepath.Join(t.TempDir(), "x.xlsx"))
	require.NoError(t, err)

	require.NoError(t, w.EnsureTable(ctx, "T", []string{"A", "B"}))
	require.NoError(t, w.AppendRow(ctx, "T", model.Registro{"A": "1", "B": "2"}))
	require.NoError(t, w.EnsureTable(ctx, "T", []string{"X", "Y"}))

	rows, err := w.GetRows(ctx, "T")
	require.NoError(t, err)
	assert.Equal(t, []model.Registro{{"A": "1", "B": "2"}}, rows)
}

func TestExportarOperacoesXLSX(t *testing.T) {
	ops := []model.Operacao{{
		Linha:        2,
		Data:         "19/10/2026",
		Tipo:         model.TipoChequeVista,
		ValorBruto:   decimal.NewFromInt(500),
		TaxaCliente:  decimal.NewFromInt(10),
		ValorLiquido: decimal.NewFromInt(490),
		Lucro:        decimal.NewFromInt(10),
		Status:       model.StatusConcluido,
	}}

	b, err := ExportarOperacoesXLSX(ops)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Operacoes")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Linha", rows[0][0])
	assert.Equal(t, model.ColData, rows[0][1])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, model.TipoChequeVista.Rotulo(), rows[1][4])

	v, err := f.GetCellValue("Operacoes", "H2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "500", v)
}
