package dto

import "github.com/shopspring/decimal"

// ValorFormatado carries an amount and its pt-BR rendering.
type ValorFormatado struct {
	Valor     decimal.Decimal `json:"valor"`
	Formatado string          `json:"formatado"`
}

type AlertaSaldo struct {
	Nivel    string         `json:"nivel"` // normal | baixo | critico
	Mensagem string         `json:"mensagem"`
	Limite   ValorFormatado `json:"limite"`
}

type SerieTipo struct {
	Tipo    string            `json:"tipo"`
	Rotulo  string            `json:"rotulo"`
	Valores []decimal.Decimal `json:"valores"` // aligned with GraficoSemana.Dias
	Total   decimal.Decimal   `json:"total"`
}

// GraficoSemana is the bar chart of the last seven days, oldest first.
type GraficoSemana struct {
	Dias        []string          `json:"dias"`
	Series      []SerieTipo       `json:"series"`
	TotalPorDia []decimal.Decimal `json:"total_por_dia"`
}

type DashboardCaixaResponse struct {
	TotalSuprimentos ValorFormatado `json:"total_suprimentos"`
	TotalSaques      ValorFormatado `json:"total_saques"`
	Saldo            ValorFormatado `json:"saldo"`
	OperacoesHoje    int            `json:"operacoes_hoje"`
	SaquesHoje       ValorFormatado `json:"saques_hoje"`
	LucroHoje        ValorFormatado `json:"lucro_hoje"`
	Alerta           AlertaSaldo    `json:"alerta"`
	Grafico          GraficoSemana  `json:"grafico"`
	Data             string         `json:"data"` // today, dd/mm/yyyy
}
