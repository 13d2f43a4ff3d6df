package repository

import (
	"context"
	"errors"

	"straublot/internal/model"
)

var ErrOperacaoNaoEncontrada = errors.New("operação não encontrada")

type OperacaoRepository interface {
	// Provisionar makes sure the operations worksheet exists with its header.
	Provisionar(ctx context.Context) error
	List(ctx context.Context) ([]model.Operacao, error)
	FindByLinha(ctx context.Context, linha int) (*model.Operacao, error)
	// Create appends op. Rows are never updated or deleted.
	Create(ctx context.Context, op *model.Operacao) error
}

type operacaoRepo struct{ planilha Planilha }

func NewOperacaoRepository(p Planilha) OperacaoRepository { return &operacaoRepo{planilha: p} }

func (r *operacaoRepo) Provisionar(ctx context.Context) error {
	return r.planilha.EnsureTable(ctx, model.TabelaOperacoes, model.ColunasOperacoes)
}

func (r *operacaoRepo) List(ctx context.Context) ([]model.Operacao, error) {
	rows, err := r.planilha.GetRows(ctx, model.TabelaOperacoes)
	if err != nil {
		return nil, err
	}
	ops := make([]model.Operacao, 0, len(rows))
	for i, row := range rows {
		op := model.OperacaoDeRegistro(row)
		op.Linha = i + 2 // header is line 1
		ops = append(ops, op)
	}
	return ops, nil
}

func (r *operacaoRepo) FindByLinha(ctx context.Context, linha int) (*model.Operacao, error) {
	ops, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := linha - 2
	if idx < 0 || idx >= len(ops) {
		return nil, ErrOperacaoNaoEncontrada
	}
	return &ops[idx], nil
}

func (r *operacaoRepo) Create(ctx context.Context, op *model.Operacao) error {
	return r.planilha.AppendRow(ctx, model.TabelaOperacoes, op.Registro())
}
