package service

import (
	"context"
	"time"

	"straublot/internal/config"
	"straublot/internal/dto"
	"straublot/internal/model"
	"straublot/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const diasGrafico = 7

const (
	AlertaNormal  = "normal"
	AlertaBaixo   = "baixo"
	AlertaCritico = "critico"
)

type DashboardService interface {
	Caixa(ctx context.Context) (*dto.DashboardCaixaResponse, error)
}

type dashboardService struct {
	repo   repository.OperacaoRepository
	loc    *time.Location
	limite decimal.Decimal
	now    func() time.Time
}

func NewDashboardService(repo repository.OperacaoRepository, cfg *config.Config) DashboardService {
	return &dashboardService{repo: repo, loc: cfg.Location(), limite: cfg.SaldoMinimoAlerta, now: time.Now}
}

func (s *dashboardService) Caixa(ctx context.Context) (*dto.DashboardCaixaResponse, error) {
	ops, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("dashboard: failed to read operations")
		return nil, err
	}
	resp := ResumirCaixa(ops, s.now().In(s.loc), s.limite)
	return &resp, nil
}

// ResumirCaixa aggregates the operation rows as of hoje.
//
// Saldo is total supply minus the net amount of every withdrawal. Rows with a
// label outside the known types are ignored.
func ResumirCaixa(ops []model.Operacao, hoje time.Time, limite decimal.Decimal) dto.DashboardCaixaResponse {
	dataHoje := hoje.Format(model.FormatoData)

	dias := make([]string, diasGrafico)
	indiceDia := make(map[string]int, diasGrafico)
	for i := 0; i < diasGrafico; i++ {
		d := hoje.AddDate(0, 0, i-(diasGrafico-1)).Format(model.FormatoData)
		dias[i] = d
		indiceDia[d] = i
	}
	series := make([]dto.SerieTipo, len(model.TiposSaque))
	indiceTipo := make(map[model.TipoOperacao]int, len(model.TiposSaque))
	for i, t := range model.TiposSaque {
		series[i] = dto.SerieTipo{Tipo: string(t), Rotulo: t.Rotulo(), Valores: zeros(diasGrafico), Total: decimal.Zero}
		indiceTipo[t] = i
	}
	totalPorDia := zeros(diasGrafico)

	suprimentos, saques := decimal.Zero, decimal.Zero
	saquesHoje, lucroHoje := decimal.Zero, decimal.Zero
	operacoesHoje := 0

	for _, op := range ops {
		eHoje := op.Data == dataHoje
		if eHoje {
			operacoesHoje++
			lucroHoje = lucroHoje.Add(op.Lucro)
		}

		switch {
		case op.Tipo == model.TipoSuprimento:
			suprimentos = suprimentos.Add(op.ValorBruto)
		case op.Tipo.Saque():
			saques = saques.Add(op.ValorLiquido)
			if eHoje {
				saquesHoje = saquesHoje.Add(op.ValorBruto)
			}
			if d, ok := indiceDia[op.Data]; ok {
				serie := &series[indiceTipo[op.Tipo]]
				serie.Valores[d] = serie.Valores[d].Add(op.ValorLiquido)
				serie.Total = serie.Total.Add(op.ValorLiquido)
				totalPorDia[d] = totalPorDia[d].Add(op.ValorLiquido)
			}
		}
	}

	saldo := suprimentos.Sub(saques)
	return dto.DashboardCaixaResponse{
		TotalSuprimentos: formatado(suprimentos),
		TotalSaques:      formatado(saques),
		Saldo:            formatado(saldo),
		OperacoesHoje:    operacoesHoje,
		SaquesHoje:       formatado(saquesHoje),
		LucroHoje:        formatado(lucroHoje),
		Alerta:           alertaSaldo(saldo, limite),
		Grafico:          dto.GraficoSemana{Dias: dias, Series: series, TotalPorDia: totalPorDia},
		Data:             dataHoje,
	}
}

func alertaSaldo(saldo, limite decimal.Decimal) dto.AlertaSaldo {
	a := dto.AlertaSaldo{Nivel: AlertaNormal, Mensagem: "Saldo do caixa adequado", Limite: formatado(limite)}
	switch {
	case saldo.IsNegative():
		a.Nivel = AlertaCritico
		a.Mensagem = "Saldo negativo: registre um suprimento antes de novos saques"
	case saldo.LessThan(limite):
		a.Nivel = AlertaBaixo
		a.Mensagem = "Saldo abaixo de " + model.FormatarReais(limite) + ": considere solicitar suprimento"
	}
	return a
}

func formatado(v decimal.Decimal) dto.ValorFormatado {
	v = v.Round(2)
	return dto.ValorFormatado{Valor: v, Formatado: model.FormatarReais(v)}
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}
