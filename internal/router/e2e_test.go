//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"context"
	"net/http"
	"testing"
	"time"

	"straublot/internal/config"
	"straublot/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type e2eEnv struct {
	cfg *config.Config
	rdb *redis.Client
}

func setupE2E(t *testing.T) e2eEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("loterica_test"),
		tcPostgres.WithUsername("loterica"),
		tcPostgres.WithPassword("loterica"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(ctx, rdURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := baseConfig(t)
	cfg.PlanilhaBackend = config.BackendSQL
	cfg.DatabaseURL = pgURL
	cfg.RedisURL = rdURL
	cfg.PlanilhaCacheTTL = 200 * time.Millisecond
	return e2eEnv{cfg: cfg, rdb: rdb}
}

func TestE2E_CaixaOnPostgresWithRedisCache(t *testing.T) {
	env := setupE2E(t)
	srv := startServer(t, env.cfg, env.rdb)

	resp := do(t, srv, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	decodeJSON(t, resp, &health)
	assert.Equal(t, "sql", health["backend"])
	assert.Equal(t, "connected", health["redis"])

	gerente := login(t, srv, "gerente", "gerente")

	for _, op := range []map[string]any{
		{"tipo": "suprimento", "valor": "3000"},
		{"tipo": "cartao_credito", "valor": "1000", "cliente": "João", "cpf_cnpj": "123.456.789-09"},
		{"tipo": "cheque_manual", "valor": "500", "percentual": "10"},
	} {
		resp = do(t, srv, http.MethodPost, "/v1/operacoes", op, gerente)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Writes do not invalidate the cache; the rows show up once the TTL passes.
	var lista struct {
		Total      int             `json:"total"`
		TotalLucro decimal.Decimal `json:"total_lucro"`
	}
	require.Eventually(t, func() bool {
		resp := do(t, srv, http.MethodGet, "/v1/operacoes", nil, gerente)
		decodeJSON(t, resp, &lista)
		return lista.Total == 3
	}, 5*time.Second, 100*time.Millisecond)
	// credit: 53.30 - 43.30 = 10.00; manual: 50.00
	assert.Equal(t, "60.00", lista.TotalLucro.StringFixed(2))

	// 3000 - (946.70 + 450.00) = 1603.30
	resp = do(t, srv, http.MethodGet, "/v1/dashboard/caixa", nil, gerente)
	var dash struct {
		Saldo struct {
			Valor decimal.Decimal `json:"valor"`
		} `json:"saldo"`
		Alerta struct {
			Nivel string `json:"nivel"`
		} `json:"alerta"`
	}
	decodeJSON(t, resp, &dash)
	assert.Equal(t, "1603.30", dash.Saldo.Valor.StringFixed(2))
	assert.Equal(t, "baixo", dash.Alerta.Nivel)
}

func TestE2E_RowsSurviveRestart(t *testing.T) {
	env := setupE2E(t)

	first := startServer(t, env.cfg, nil)
	token := login(t, first, "operador_caixa", "caixa")
	resp := do(t, first, http.MethodPost, "/v1/operacoes", map[string]any{"tipo": "cheque_vista", "valor": "200"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	first.Close()

	second := startServer(t, env.cfg, nil)
	token = login(t, second, "operador_caixa", "caixa")
	resp = do(t, second, http.MethodGet, "/v1/operacoes", nil, token)
	var lista struct {
		Total     int `json:"total"`
		Operacoes []struct {
			Linha        int             `json:"linha"`
			ValorLiquido decimal.Decimal `json:"valor_liquido"`
		} `json:"operacoes"`
	}
	decodeJSON(t, resp, &lista)
	require.Equal(t, 1, lista.Total)
	assert.Equal(t, 2, lista.Operacoes[0].Linha)
	assert.Equal(t, "196.00", lista.Operacoes[0].ValorLiquido.StringFixed(2))
}
