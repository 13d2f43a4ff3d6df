package infra

import (
	"context"
	"fmt"

	"straublot/internal/config"
	"straublot/internal/repository"

	"github.com/rs/zerolog/log"
)

// Backend is a spreadsheet gateway that can report its reachability.
type Backend interface {
	repository.Planilha
	Ping(ctx context.Context) error
}

// PlanilhaBackend is the backend selected by PLANILHA_BACKEND plus what the
// health check and shutdown need from it.
type PlanilhaBackend struct {
	Nome     string
	Base     Backend
	Circuito *CircuitBreaker // sheets only
	fechar   func() error
}

// NewPlanilhaBackend builds the configured backend. Configuration must have
// passed Validate.
func NewPlanilhaBackend(ctx context.Context, cfg *config.Config) (*PlanilhaBackend, error) {
	switch cfg.PlanilhaBackend {
	case config.BackendSheets:
		creds, err := LerCredenciais(cfg.GoogleCredentialsFile, cfg.GoogleCredentialsJSON)
		if err != nil {
			return nil, err
		}
		cb := NewCircuitBreaker(CircuitBreakerConfig{
			Name:             "google-sheets",
			FailureThreshold: cfg.CBFailureThreshold,
			OpenTimeout:      cfg.CBOpenTimeout,
		})
		g, err := NewGoogleSheets(ctx, cfg.PlanilhaURL, creds, cb)
		if err != nil {
			return nil, err
		}
		log.Info().Str("spreadsheet_id", g.spreadsheetID).Msg("google sheets backend ready")
		return &PlanilhaBackend{Nome: cfg.PlanilhaBackend, Base: g, Circuito: cb}, nil

	case config.BackendXLSX:
		w, err := OpenWorkbook(cfg.PlanilhaXLSXPath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.PlanilhaXLSXPath).Msg("xlsx backend ready")
		return &PlanilhaBackend{Nome: cfg.PlanilhaBackend, Base: w, fechar: w.Close}, nil

	case config.BackendSQL:
		db, err := NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		log.Info().Str("dialect", db.Dialector.Name()).Msg("sql backend ready")
		return &PlanilhaBackend{Nome: cfg.PlanilhaBackend, Base: NewSQLPlanilha(db), fechar: sqlDB.Close}, nil
	}
	return nil, fmt.Errorf("PLANILHA_BACKEND desconhecido: %q", cfg.PlanilhaBackend)
}

// EstadoCircuito reports the breaker state, or "" for local backends.
func (b *PlanilhaBackend) EstadoCircuito() string {
	if b.Circuito == nil {
		return ""
	}
	return b.Circuito.State().String()
}

func (b *PlanilhaBackend) Close() error {
	if b.fechar == nil {
		return nil
	}
	return b.fechar()
}
