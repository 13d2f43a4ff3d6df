package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"straublot/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func init() { gin.SetMode(gin.TestMode) }

func signToken(t *testing.T, perfil string, modulos []string, dur time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"perfil": perfil, "nome": "Teste", "modulos": modulos,
		"exp": time.Now().Add(dur).Unix(), "iat": time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func protectedRouter(modulos ...string) *gin.Engine {
	r := gin.New()
	r.GET("/p", JWTAuth(testSecret), RequireModulo(modulos...), func(c *gin.Context) {
		s, _ := GetSessao(c)
		c.JSON(http.StatusOK, gin.H{"perfil": s.Perfil, "nome": s.Nome})
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := protectedRouter(model.ModuloHistorico)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "lixo").Code)

	expirado := signToken(t, model.PerfilGerente, []string{model.ModuloHistorico}, -time.Minute)
	assert.Equal(t, http.StatusUnauthorized, get(r, expirado).Code)

	desconhecido := signToken(t, "visitante", []string{model.ModuloHistorico}, time.Hour)
	assert.Equal(t, http.StatusUnauthorized, get(r, desconhecido).Code)

	ok := signToken(t, model.PerfilOperadorCaixa, []string{model.ModuloHistorico}, time.Hour)
	w := get(r, ok)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, model.PerfilOperadorCaixa, body["perfil"])
	assert.Equal(t, "Teste", body["nome"])
}

func TestJWTAuth_AlgoritmoNone(t *testing.T) {
	claims := jwt.MapClaims{"perfil": model.PerfilGerente, "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(protectedRouter(), tok).Code)
}

func TestRequireModulo(t *testing.T) {
	r := protectedRouter(model.ModuloOperacoesCaixa, model.ModuloSuprimento)

	loterica := signToken(t, model.PerfilOperadorLoterica, []string{model.ModuloDashboardLoterica}, time.Hour)
	w := get(r, loterica)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "detail")

	// Any one of the listed modules is enough.
	gerente := signToken(t, model.PerfilGerente, []string{model.ModuloSuprimento}, time.Hour)
	assert.Equal(t, http.StatusOK, get(r, gerente).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/p", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := get(r, "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRecoveryEErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), ErrorHandler())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/erro", func(c *gin.Context) { _ = c.Error(assert.AnError) })

	for _, path := range []string{"/panic", "/erro"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.NotContains(t, w.Body.String(), "boom")
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	}
}

func TestIPRateLimiter(t *testing.T) {
	rl := NewIPRateLimiter(rate.Every(time.Hour), 2, "devagar")
	r := gin.New()
	r.GET("/p", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, get(r, "").Code)
	assert.Equal(t, http.StatusNoContent, get(r, "").Code)
	w := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "devagar")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	now := time.Now().Add(time.Hour)
	rl.now = func() time.Time { return now }
	assert.Equal(t, 1, rl.Purge(time.Minute))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://loja.example"))
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/p", nil)
	req.Header.Set("Origin", "https://loja.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://loja.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Origin", "https://outra.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
