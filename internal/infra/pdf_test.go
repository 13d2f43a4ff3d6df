package infra

import (
	"testing"

	"straublot/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGerarComprovantePDF(t *testing.T) {
	op := model.Operacao{
		Linha:                2,
		Data:                 "19/10/2026",
		Hora:                 "10:15:00",
		Operador:             "Operador do Caixa",
		Tipo:                 model.TipoChequePreDatado,
		TipoRotulo:           model.TipoChequePreDatado.Rotulo(),
		Cliente:              "José da Silva",
		CPFCNPJ:              "12345678901",
		ValorBruto:           decimal.NewFromInt(1000),
		TaxaCliente:          decimal.RequireFromString("53.00"),
		ValorLiquido:         decimal.RequireFromString("947.00"),
		DataVencimentoCheque: "29/10/2026",
		Observacoes:          "cheque nominal",
	}

	b, err := GerarComprovantePDF(op, "Lotérica Central", "abc-123")
	require.NoError(t, err)
	require.Greater(t, len(b), 100)
	assert.Equal(t, "%PDF", string(b[:4]))
}
