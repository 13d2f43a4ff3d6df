package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TabelaOperacoes is the worksheet holding every caixa interno operation.
const TabelaOperacoes = "Operacoes_Caixa"

// Column headers of TabelaOperacoes, in sheet order.
const (
	ColData                 = "Data"
	ColHora                 = "Hora"
	ColOperador             = "Operador"
	ColTipoOperacao         = "Tipo_Operacao"
	ColCliente              = "Cliente"
	ColCPFCNPJ              = "CPF_CNPJ"
	ColValorBruto           = "Valor_Bruto"
	ColTaxaCliente          = "Taxa_Cliente"
	ColTaxaBanco            = "Taxa_Banco"
	ColValorLiquido         = "Valor_Liquido"
	ColLucro                = "Lucro"
	ColStatus               = "Status"
	ColDataVencimentoCheque = "Data_Vencimento_Cheque"
	ColTaxaPercentual       = "Taxa_Percentual"
	ColObservacoes          = "Observacoes"
)

var ColunasOperacoes = []string{
	ColData, ColHora, ColOperador, ColTipoOperacao, ColCliente, ColCPFCNPJ,
	ColValorBruto, ColTaxaCliente, ColTaxaBanco, ColValorLiquido, ColLucro,
	ColStatus, ColDataVencimentoCheque, ColTaxaPercentual, ColObservacoes,
}

const (
	FormatoData = "02/01/2006"
	FormatoHora = "15:04:05"

	StatusConcluido = "Concluído"
)

// TipoOperacao is the API code of an operation. The sheet stores Rotulo().
type TipoOperacao string

const (
	TipoCartaoDebito    TipoOperacao = "cartao_debito"
	TipoCartaoCredito   TipoOperacao = "cartao_credito"
	TipoChequeVista     TipoOperacao = "cheque_vista"
	TipoChequePreDatado TipoOperacao = "cheque_pre_datado"
	TipoChequeManual    TipoOperacao = "cheque_manual"
	TipoSuprimento      TipoOperacao = "suprimento"
)

var rotulos = map[TipoOperacao]string{
	TipoCartaoDebito:    "Saque Cartão Débito",
	TipoCartaoCredito:   "Saque Cartão Crédito",
	TipoChequeVista:     "Troca Cheque à Vista",
	TipoChequePreDatado: "Troca Cheque Pré-datado",
	TipoChequeManual:    "Troca Cheque Taxa Manual",
	TipoSuprimento:      "Suprimento",
}

// TiposSaque are the operations that take cash out of the till.
var TiposSaque = []TipoOperacao{
	TipoCartaoDebito, TipoCartaoCredito, TipoChequeVista, TipoChequePreDatado, TipoChequeManual,
}

func (t TipoOperacao) Rotulo() string { return rotulos[t] }

func (t TipoOperacao) Valido() bool {
	_, ok := rotulos[t]
	return ok
}

// Saque reports whether t is a withdrawal.
func (t TipoOperacao) Saque() bool {
	for _, s := range TiposSaque {
		if s == t {
			return true
		}
	}
	return false
}

// TipoPorRotulo maps a sheet label back to its code.
func TipoPorRotulo(rotulo string) (TipoOperacao, bool) {
	rotulo = strings.TrimSpace(rotulo)
	for t, r := range rotulos {
		if strings.EqualFold(r, rotulo) {
			return t, true
		}
	}
	return "", false
}

// Operacao is one row of TabelaOperacoes.
type Operacao struct {
	// Linha is the 1-based worksheet line (the header is line 1). Zero until read back.
	Linha int

	Data         string
	Hora         string
	Operador     string
	Tipo         TipoOperacao // empty when the sheet carries an unknown label
	TipoRotulo   string
	Cliente      string
	CPFCNPJ      string
	ValorBruto   decimal.Decimal
	TaxaCliente  decimal.Decimal
	TaxaBanco    decimal.Decimal
	ValorLiquido decimal.Decimal
	Lucro        decimal.Decimal
	Status       string
	// DataVencimentoCheque is dd/mm/yyyy, postdated checks only.
	DataVencimentoCheque string
	// TaxaPercentual is the operator-supplied percentage, manual checks only.
	TaxaPercentual string
	Observacoes    string
}

// Registro renders the operation as a header-keyed row.
func (o *Operacao) Registro() Registro {
	rotulo := o.TipoRotulo
	if rotulo == "" {
		rotulo = o.Tipo.Rotulo()
	}
	return Registro{
		ColData:                 o.Data,
		ColHora:                 o.Hora,
		ColOperador:             o.Operador,
		ColTipoOperacao:         rotulo,
		ColCliente:              o.Cliente,
		ColCPFCNPJ:              o.CPFCNPJ,
		ColValorBruto:           o.ValorBruto.StringFixed(2),
		ColTaxaCliente:          o.TaxaCliente.StringFixed(2),
		ColTaxaBanco:            o.TaxaBanco.StringFixed(2),
		ColValorLiquido:         o.ValorLiquido.StringFixed(2),
		ColLucro:                o.Lucro.StringFixed(2),
		ColStatus:               o.Status,
		ColDataVencimentoCheque: o.DataVencimentoCheque,
		ColTaxaPercentual:       o.TaxaPercentual,
		ColObservacoes:          o.Observacoes,
	}
}

// OperacaoDeRegistro parses a row read from the sheet. Money columns that do
// not parse are read as zero.
func OperacaoDeRegistro(r Registro) Operacao {
	rotulo := strings.TrimSpace(r[ColTipoOperacao])
	tipo, _ := TipoPorRotulo(rotulo)
	return Operacao{
		Data:                 strings.TrimSpace(r[ColData]),
		Hora:                 strings.TrimSpace(r[ColHora]),
		Operador:             r[ColOperador],
		Tipo:                 tipo,
		TipoRotulo:           rotulo,
		Cliente:              r[ColCliente],
		CPFCNPJ:              r[ColCPFCNPJ],
		ValorBruto:           ParseValor(r[ColValorBruto]),
		TaxaCliente:          ParseValor(r[ColTaxaCliente]),
		TaxaBanco:            ParseValor(r[ColTaxaBanco]),
		ValorLiquido:         ParseValor(r[ColValorLiquido]),
		Lucro:                ParseValor(r[ColLucro]),
		Status:               r[ColStatus],
		DataVencimentoCheque: r[ColDataVencimentoCheque],
		TaxaPercentual:       r[ColTaxaPercentual],
		Observacoes:          r[ColObservacoes],
	}
}

// ParseValor coerces a spreadsheet cell to money. It accepts plain numbers
// ("1234.56"), pt-BR formatting ("1.234,56") and a leading currency symbol.
// A single dot is a thousands separator when the cell carries "R$" or the dot
// is followed by exactly three digits ("R$ 5.000", "1.234"). Anything else is
// zero.
func ParseValor(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	reais := strings.HasPrefix(s, "R$")
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return decimal.Zero
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return decimal.Zero
		}
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		// "1.234.567": thousands separators only
		s = strings.ReplaceAll(s, ".", "")
	case lastDot >= 0 && (reais || milharPtBR(s, lastDot)):
		s = strings.Replace(s, ".", "", 1)
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// milharPtBR reports whether the lone dot at i groups thousands: one to three
// integer digits without a leading zero, then exactly three digits.
func milharPtBR(s string, i int) bool {
	inteiro, frac := strings.TrimPrefix(s[:i], "-"), s[i+1:]
	if len(inteiro) == 0 || len(inteiro) > 3 || inteiro[0] == '0' || len(frac) != 3 {
		return false
	}
	for _, r := range inteiro + frac {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
