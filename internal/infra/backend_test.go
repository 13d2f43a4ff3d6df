package infra

import (
	"context"
	"path/filepath"
	"testing"

	"straublot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlanilhaBackend_Locais(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	for _, cfg := range []*config.Config{
		{PlanilhaBackend: config.BackendXLSX, PlanilhaXLSXPath: filepath.Join(dir, "l.xlsx")},
		{PlanilhaBackend: config.BackendSQL, DatabaseURL: filepath.Join(dir, "l.db")},
	} {
		b, err := NewPlanilhaBackend(ctx, cfg)
		require.NoError(t, err, cfg.PlanilhaBackend)
		assert.Equal(t, cfg.PlanilhaBackend, b.Nome)
		assert.Empty(t, b.EstadoCircuito())
		assert.NoError(t, b.Base.Ping(ctx))
		assert.NoError(t, b.Close())
	}
}

func TestNewPlanilhaBackend_SheetsSemCredenciais(t *testing.T) {
	_, err := NewPlanilhaBackend(context.Background(), &config.Config{
		PlanilhaBackend:       config.BackendSheets,
		PlanilhaURL:           "https://docs.google.com/spreadsheets/d/abc/edit",
		GoogleCredentialsFile: filepath.Join(t.TempDir(), "nada.json"),
	})
	assert.Error(t, err)

	_, err = NewPlanilhaBackend(context.Background(), &config.Config{PlanilhaBackend: "mongo"})
	assert.Error(t, err)
}
