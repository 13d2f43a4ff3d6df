package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"straublot/internal/dto"
	"straublot/internal/middleware"
	"straublot/internal/model"
	"straublot/internal/repository"
	"straublot/internal/service"
	"straublot/internal/taxa"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Stubs ────────────────────────────────────────────────────────────────────

type stubOperacaoSvc struct {
	err     error
	ultimo  dto.OperacaoRequest
	linha   int
	filtro  dto.FiltroOperacoes
	chamado bool
}

func (s *stubOperacaoSvc) Simular(_ context.Context, _ model.Sessao, req dto.OperacaoRequest) (*dto.CalculoResponse, error) {
	s.chamado, s.ultimo = true, req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CalculoResponse{Tipo: req.Tipo, ValorBruto: req.Valor}, nil
}

func (s *stubOperacaoSvc) Registrar(_ context.Context, _ model.Sessao, req dto.OperacaoRequest) (*dto.RegistrarOperacaoResponse, error) {
	s.chamado, s.ultimo = true, req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.RegistrarOperacaoResponse{Calculo: dto.CalculoResponse{Tipo: req.Tipo}}, nil
}

func (s *stubOperacaoSvc) Listar(_ context.Context, f dto.FiltroOperacoes) (*dto.ListaOperacoesResponse, error) {
	s.chamado, s.filtro = true, f
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ListaOperacoesResponse{Operacoes: []dto.OperacaoResponse{}}, nil
}

func (s *stubOperacaoSvc) Exportar(_ context.Context, f dto.FiltroOperacoes) ([]byte, error) {
	s.chamado, s.filtro = true, f
	return []byte("PK"), s.err
}

func (s *stubOperacaoSvc) Comprovante(_ context.Context, linha int) ([]byte, error) {
	s.chamado, s.linha = true, linha
	return []byte("%PDF-1.3"), s.err
}

type stubDashboardSvc struct{ err error }

func (s stubDashboardSvc) Caixa(context.Context) (*dto.DashboardCaixaResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DashboardCaixaResponse{OperacoesHoje: 2, Data: "19/10/2026"}, nil
}

type stubAuthSvc struct{ err error }

func (s stubAuthSvc) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LoginResponse{AccessToken: "tok", TokenType: "Bearer", Sessao: dto.SessaoResponse{Perfil: req.Perfil}}, nil
}

func (s stubAuthSvc) ListarPerfis() []dto.PerfilResponse {
	return []dto.PerfilResponse{{Chave: model.PerfilGerente, Nome: "Gerente"}}
}

type pingErr struct{ err error }

func (p pingErr) Ping(context.Context) error { return p.err }

// ── Helpers ──────────────────────────────────────────────────────────────────

var gerente = model.Sessao{Perfil: model.PerfilGerente, Nome: "Gerente", Modulos: []string{model.ModuloOperacoesCaixa}}

func newEngine(comSessao bool) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	if comSessao {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.SessaoKey, gerente)
			c.Next()
		})
	}
	return r
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func operacoesEngine(svc *stubOperacaoSvc) *gin.Engine {
	r := newEngine(true)
	h := NewOperacoesHandler(svc)
	r.POST("/operacoes/simular", h.Simular)
	r.POST("/operacoes", h.Registrar)
	r.GET("/operacoes", h.Listar)
	r.GET("/operacoes/exportar", h.Exportar)
	r.GET("/operacoes/:linha/comprovante", h.Comprovante)
	return r
}

// ── Operações ────────────────────────────────────────────────────────────────

func TestRegistrar_Created(t *testing.T) {
	svc := &stubOperacaoSvc{}
	w := perform(operacoesEngine(svc), http.MethodPost, "/operacoes",
		`{"tipo":"cartao_debito","valor":"150.50","cliente":"Maria"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "150.5", svc.ultimo.Valor.String())
	assert.Equal(t, "Maria", svc.ultimo.Cliente)
}

func TestRegistrar_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		campo string
		tag   string
	}{
		{"tipo desconhecido", `{"tipo":"pix","valor":"10"}`, "tipo", "oneof"},
		{"valor zero", `{"tipo":"cheque_vista","valor":"0"}`, "valor", "required"},
		{"valor negativo", `{"tipo":"cheque_vista","valor":"-5"}`, "valor", "gt"},
		{"vencimento mal formatado", `{"tipo":"cheque_pre_datado","valor":"10","data_vencimento":"19/10/2026"}`, "data_vencimento", "datetime"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubOperacaoSvc{}
			w := perform(operacoesEngine(svc), http.MethodPost, "/operacoes", tc.body)

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			var body struct {
				Fields map[string]string `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.tag, body.Fields[tc.campo])
			assert.False(t, svc.chamado)
		})
	}
}

func TestRegistrar_MalformedJSON(t *testing.T) {
	w := perform(operacoesEngine(&stubOperacaoSvc{}), http.MethodPost, "/operacoes", `{"tipo":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOperacoes_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"prazo fora do limite", taxa.ErrPrazoInvalido, http.StatusBadRequest},
		{"percentual ausente", service.ErrPercentualObrigatorio, http.StatusBadRequest},
		{"documento", fmt.Errorf("cpf: %w", service.ErrDocumentoInvalido), http.StatusBadRequest},
		{"sem permissão", service.ErrSemPermissao, http.StatusForbidden},
		{"planilha fora do ar", fmt.Errorf("append: %w", repository.ErrPlanilhaIndisponivel), http.StatusServiceUnavailable},
		{"aba não provisionada", fmt.Errorf(`aba "Operacoes_Caixa" não existe: %w`, repository.ErrTabelaNaoProvisionada), http.StatusServiceUnavailable},
		{"erro inesperado", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubOperacaoSvc{err: tc.err}
			w := perform(operacoesEngine(svc), http.MethodPost, "/operacoes/simular", `{"tipo":"cheque_vista","valor":"10"}`)
			assert.Equal(t, tc.want, w.Code)
			assert.NotContains(t, w.Body.String(), "boom")
		})
	}
}

func TestSimular_RequiresSession(t *testing.T) {
	r := newEngine(false)
	r.POST("/operacoes/simular", NewOperacoesHandler(&stubOperacaoSvc{}).Simular)

	w := perform(r, http.MethodPost, "/operacoes/simular", `{"tipo":"cheque_vista","valor":"10"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListar_BindsFilter(t *testing.T) {
	svc := &stubOperacaoSvc{}
	w := perform(operacoesEngine(svc), http.MethodGet, "/operacoes?data_inicio=01/10/2026&tipo=suprimento&operador=Ger", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.FiltroOperacoes{DataInicio: "01/10/2026", Tipo: "suprimento", Operador: "Ger"}, svc.filtro)
}

func TestExportar_Attachment(t *testing.T) {
	w := perform(operacoesEngine(&stubOperacaoSvc{}), http.MethodGet, "/operacoes/exportar", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mimeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="operacoes_`)
}

func TestComprovante(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &stubOperacaoSvc{}
		w := perform(operacoesEngine(svc), http.MethodGet, "/operacoes/7/comprovante", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, mimePDF, w.Header().Get("Content-Type"))
		assert.Equal(t, 7, svc.linha)
	})
	t.Run("linha do cabeçalho", func(t *testing.T) {
		svc := &stubOperacaoSvc{}
		w := perform(operacoesEngine(svc), http.MethodGet, "/operacoes/1/comprovante", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, svc.chamado)
	})
	t.Run("linha não numérica", func(t *testing.T) {
		w := perform(operacoesEngine(&stubOperacaoSvc{}), http.MethodGet, "/operacoes/abc/comprovante", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("inexistente", func(t *testing.T) {
		svc := &stubOperacaoSvc{err: repository.ErrOperacaoNaoEncontrada}
		w := perform(operacoesEngine(svc), http.MethodGet, "/operacoes/40/comprovante", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// ── Dashboard ────────────────────────────────────────────────────────────────

func TestDashboardCaixa(t *testing.T) {
	r := newEngine(true)
	r.GET("/dashboard", NewDashboardHandler(stubDashboardSvc{}).Caixa)
	w := perform(r, http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"operacoes_hoje":2`)

	r = newEngine(true)
	r.GET("/dashboard", NewDashboardHandler(stubDashboardSvc{err: repository.ErrPlanilhaIndisponivel}).Caixa)
	w = perform(r, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	r := newEngine(false)
	r.POST("/login", NewAuthHandler(stubAuthSvc{}).Login)
	w := perform(r, http.MethodPost, "/login", `{"perfil":"gerente","senha":"x"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"tok"`)

	r = newEngine(false)
	r.POST("/login", NewAuthHandler(stubAuthSvc{err: service.ErrCredenciaisInvalidas}).Login)
	w = perform(r, http.MethodPost, "/login", `{"perfil":"gerente","senha":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodPost, "/login", `{"perfil":"gerente","senha":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSessaoEcho(t *testing.T) {
	r := newEngine(true)
	r.GET("/sessao", NewAuthHandler(stubAuthSvc{}).Sessao)
	w := perform(r, http.MethodGet, "/sessao", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body dto.SessaoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, model.PerfilGerente, body.Perfil)
	assert.Equal(t, []string{model.ModuloOperacoesCaixa}, body.Modulos)
}

// ── Health ───────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/ok", Health(HealthDeps{Backend: "xlsx", Planilha: pingErr{}}))
	r.GET("/down", Health(HealthDeps{Backend: "sheets", Planilha: pingErr{err: errors.New("x")}, Circuito: func() string { return "open" }}))

	w := perform(r, http.MethodGet, "/ok", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)

	w = perform(r, http.MethodGet, "/down", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"circuito":"open"`)
	assert.Contains(t, w.Body.String(), `"planilha":"error"`)
}

func TestValidatorAcceptsDecimal(t *testing.T) {
	req := dto.OperacaoRequest{Tipo: "suprimento", Valor: decimal.RequireFromString("0.01")}
	assert.NoError(t, validate.Struct(req))
}
