// provisionar creates the operations worksheet and its header row on the
// configured backend. Safe to run repeatedly.
//
// Uso: go run ./cmd/provisionar
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"straublot/internal/config"
	"straublot/internal/infra"
	"straublot/internal/model"
	"straublot/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	backend, err := infra.NewPlanilhaBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open spreadsheet backend")
	}
	defer backend.Close()

	repo := repository.NewOperacaoRepository(backend.Base)
	if err := repo.Provisionar(ctx); err != nil {
		log.Fatal().Err(err).Msg("provisioning failed")
	}
	ops, err := repo.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("read back failed")
	}
	fmt.Printf("Aba %q pronta no backend %s (%d operações)\n", model.TabelaOperacoes, backend.Nome, len(ops))
}
