// Package taxa computes the fees charged by the caixa interno on card cash
// advances and check cashing.
//
// Every function is pure: the same input always yields the same breakdown.
// Amounts are decimal.Decimal normalized to cents and each intermediate term is
// rounded half-up to two places before it is aggregated, so the values match
// what the operator reconciles by hand at the end of the day.
package taxa

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PrazoMaximoDias is the longest maturity accepted for a postdated check.
const PrazoMaximoDias = 180

var (
	// Percentages expressed as fractions of the gross amount.
	PercentualDebito       = decimal.RequireFromString("0.01")
	PercentualCredito      = decimal.RequireFromString("0.0533")
	PercentualBancoCredito = decimal.RequireFromString("0.0433")
	PercentualChequeVista  = decimal.RequireFromString("0.02")
	PercentualChequeBase   = decimal.RequireFromString("0.02")
	PercentualChequeDiario = decimal.RequireFromString("0.0033")

	// TaxaBancoDebito is the flat fee the acquirer charges per debit advance.
	TaxaBancoDebito = decimal.RequireFromString("1.00")

	cem = decimal.NewFromInt(100)
)

var (
	ErrValorNegativo      = errors.New("o valor da operação não pode ser negativo")
	ErrPrazoInvalido      = errors.New("o vencimento do cheque deve estar entre 0 e 180 dias")
	ErrPercentualNegativo = errors.New("o percentual da taxa não pode ser negativo")
)

// Calculo is the fee breakdown shown to the operator before the row is saved.
type Calculo struct {
	ValorBruto   decimal.Decimal
	TaxaCliente  decimal.Decimal
	TaxaBanco    decimal.Decimal // zero when the operation has no bank fee
	Lucro        decimal.Decimal // TaxaCliente - TaxaBanco, never below zero
	ValorLiquido decimal.Decimal // ValorBruto - TaxaCliente

	// Postdated checks only.
	DiasPrazo  int
	TaxaBase   decimal.Decimal
	TaxaDiaria decimal.Decimal

	// Manual checks only, in percent (10 means 10%).
	Percentual decimal.Decimal
}

// Arredondar rounds half-up to cents. decimal.Round rounds half away from
// zero, which is half-up for the non-negative amounts handled here.
func Arredondar(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// CartaoDebito computes a debit card cash advance using the default flat bank fee.
func CartaoDebito(valor decimal.Decimal) (*Calculo, error) {
	return CartaoDebitoComTaxaBanco(valor, TaxaBancoDebito)
}

// CartaoDebitoComTaxaBanco is CartaoDebito with the acquirer's flat fee supplied
// by configuration.
func CartaoDebitoComTaxaBanco(valor, taxaBanco decimal.Decimal) (*Calculo, error) {
	valor, err := normalizar(valor)
	if err != nil {
		return nil, err
	}
	cliente := Arredondar(valor.Mul(PercentualDebito))
	return fechar(valor, cliente, Arredondar(taxaBanco)), nil
}

// CartaoCredito computes a credit card cash advance. Client and bank fees are
// rounded independently.
func CartaoCredito(valor decimal.Decimal) (*Calculo, error) {
	valor, err := normalizar(valor)
	if err != nil {
		return nil, err
	}
	cliente := Arredondar(valor.Mul(PercentualCredito))
	banco := Arredondar(valor.Mul(PercentualBancoCredito))
	return fechar(valor, cliente, banco), nil
}

// ChequeVista computes the discount on a check cashed at sight.
func ChequeVista(valor decimal.Decimal) (*Calculo, error) {
	valor, err := normalizar(valor)
	if err != nil {
		return nil, err
	}
	return fechar(valor, Arredondar(valor.Mul(PercentualChequeVista)), decimal.Zero), nil
}

// ChequePreDatado computes the discount on a postdated check cashed early.
// The day count is the number of calendar days between hoje and vencimento;
// both are compared as dates in hoje's location.
func ChequePreDatado(valor decimal.Decimal, vencimento, hoje time.Time) (*Calculo, error) {
	valor, err := normalizar(valor)
	if err != nil {
		return nil, err
	}
	dias := DiasEntre(hoje, vencimento)
	if dias < 0 || dias > PrazoMaximoDias {
		return nil, ErrPrazoInvalido
	}

	base := Arredondar(valor.Mul(PercentualChequeBase))
	diaria := Arredondar(valor.Mul(PercentualChequeDiario).Mul(decimal.NewFromInt(int64(dias))))

	c := fechar(valor, base.Add(diaria), decimal.Zero)
	c.DiasPrazo = dias
	c.TaxaBase = base
	c.TaxaDiaria = diaria
	return c, nil
}

// ChequeTaxaManual applies an operator-negotiated percentage.
func ChequeTaxaManual(valor, percentual decimal.Decimal) (*Calculo, error) {
	valor, err := normalizar(valor)
	if err != nil {
		return nil, err
	}
	if percentual.IsNegative() {
		return nil, ErrPercentualNegativo
	}
	c := fechar(valor, Arredondar(valor.Mul(percentual).Div(cem)), decimal.Zero)
	c.Percentual = percentual
	return c, nil
}

// Suprimento is a cash top-up into the till. It carries no fee.
func Suprimento(valor decimal.Decimal) (*Calculo, error) {
	valor, err := normalizar(valor)
	if err != nil {
		return nil, err
	}
	return fechar(valor, decimal.Zero, decimal.Zero), nil
}

// DiasEntre returns the calendar-day difference b - a, using a's location for both.
func DiasEntre(a, b time.Time) int {
	loc := a.Location()
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bl := b.In(loc)
	db := time.Date(bl.Year(), bl.Month(), bl.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func normalizar(valor decimal.Decimal) (decimal.Decimal, error) {
	if valor.IsNegative() {
		return decimal.Zero, ErrValorNegativo
	}
	return Arredondar(valor), nil
}

func fechar(valor, cliente, banco decimal.Decimal) *Calculo {
	lucro := cliente.Sub(banco)
	if lucro.IsNegative() {
		lucro = decimal.Zero
	}
	return &Calculo{
		ValorBruto:   valor,
		TaxaCliente:  cliente,
		TaxaBanco:    banco,
		Lucro:        lucro,
		ValorLiquido: valor.Sub(cliente),
	}
}
