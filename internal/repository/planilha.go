package repository

import (
	"context"
	"errors"

	"straublot/internal/model"
)

// ErrPlanilhaIndisponivel wraps every failure to reach the storage backend.
// Handlers surface it as 503.
var ErrPlanilhaIndisponivel = errors.New("planilha indisponível")

// ErrTabelaNaoProvisionada is returned by AppendRow when the worksheet or its
// header row is missing. EnsureTable fixes it.
var ErrTabelaNaoProvisionada = errors.New("aba não provisionada")

// Planilha is the storage gateway. Implementations live in internal/infra
// (Google Sheets, local XLSX workbook, SQL) and are wrapped by a read cache.
type Planilha interface {
	// GetRows returns every data row of tabela in sheet order. A missing
	// worksheet is not an error: it yields no rows.
	GetRows(ctx context.Context, tabela string) ([]model.Registro, error)
	// AppendRow adds registro after the last row, ordering cells by the
	// worksheet header. Without a header it fails with ErrTabelaNaoProvisionada.
	AppendRow(ctx context.Context, tabela string, registro model.Registro) error
	// EnsureTable creates tabela with colunas as header when it does not exist.
	EnsureTable(ctx context.Context, tabela string, colunas []string) error
}
