package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OperacaoRequest struct {
	Tipo           string           `json:"tipo"            validate:"required,oneof=cartao_debito cartao_credito cheque_vista cheque_pre_datado cheque_manual suprimento"`
	Valor          decimal.Decimal  `json:"valor"           validate:"required,gt=0"`
	Cliente        string           `json:"cliente"         validate:"max=120"`
	CPFCNPJ        string           `json:"cpf_cnpj"        validate:"max=20"`
	DataVencimento string           `json:"data_vencimento" validate:"omitempty,datetime=2006-01-02"`
	Percentual     *decimal.Decimal `json:"percentual"`
	Observacoes    string           `json:"observacoes"     validate:"max=500"`
}

// FiltroOperacoes are the query parameters of the history listing. Dates
// accept dd/mm/yyyy or yyyy-mm-dd.
type FiltroOperacoes struct {
	DataInicio string `form:"data_inicio"`
	DataFim    string `form:"data_fim"`
	Tipo       string `form:"tipo"`
	Operador   string `form:"operador"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CalculoResponse struct {
	Tipo         string          `json:"tipo"`
	TipoRotulo   string          `json:"tipo_rotulo"`
	ValorBruto   decimal.Decimal `json:"valor_bruto"`
	TaxaCliente  decimal.Decimal `json:"taxa_cliente"`
	TaxaBanco    decimal.Decimal `json:"taxa_banco"`
	Lucro        decimal.Decimal `json:"lucro"`
	ValorLiquido decimal.Decimal `json:"valor_liquido"`

	// cheque pré-datado
	DiasPrazo  *int             `json:"dias_prazo,omitempty"`
	TaxaBase   *decimal.Decimal `json:"taxa_base,omitempty"`
	TaxaDiaria *decimal.Decimal `json:"taxa_diaria,omitempty"`
	// cheque taxa manual
	Percentual *decimal.Decimal `json:"percentual,omitempty"`

	ValorLiquidoFormatado string `json:"valor_liquido_formatado"`
}

type OperacaoResponse struct {
	Linha                int             `json:"linha,omitempty"`
	Data                 string          `json:"data"`
	Hora                 string          `json:"hora"`
	Operador             string          `json:"operador"`
	Tipo                 string          `json:"tipo,omitempty"`
	TipoRotulo           string          `json:"tipo_rotulo"`
	Cliente              string          `json:"cliente"`
	CPFCNPJ              string          `json:"cpf_cnpj"`
	ValorBruto           decimal.Decimal `json:"valor_bruto"`
	TaxaCliente          decimal.Decimal `json:"taxa_cliente"`
	TaxaBanco            decimal.Decimal `json:"taxa_banco"`
	ValorLiquido         decimal.Decimal `json:"valor_liquido"`
	Lucro                decimal.Decimal `json:"lucro"`
	Status               string          `json:"status"`
	DataVencimentoCheque string          `json:"data_vencimento_cheque,omitempty"`
	TaxaPercentual       string          `json:"taxa_percentual,omitempty"`
	Observacoes          string          `json:"observacoes,omitempty"`
}

type RegistrarOperacaoResponse struct {
	Calculo  CalculoResponse  `json:"calculo"`
	Operacao OperacaoResponse `json:"operacao"`
}

type ListaOperacoesResponse struct {
	Operacoes         []OperacaoResponse `json:"operacoes"`
	Total             int                `json:"total"`
	TotalValorBruto   decimal.Decimal    `json:"total_valor_bruto"`
	TotalValorLiquido decimal.Decimal    `json:"total_valor_liquido"`
	TotalLucro        decimal.Decimal    `json:"total_lucro"`
}
