package middleware

import (
	"net/http"
	"strings"

	"straublot/internal/apierror"
	"straublot/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessaoKey = "sessao"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	Perfil  string   `json:"perfil"`
	Nome    string   `json:"nome"`
	Modulos []string `json:"modulos"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route and rebuilds
// the session it describes.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticação necessária"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Sessão inválida ou expirada"))
			return
		}
		// A token for a role that no longer exists is rejected.
		if _, ok := model.PerfilPorChave(claims.Perfil); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Sessão inválida ou expirada"))
			return
		}

		c.Set(SessaoKey, model.Sessao{Perfil: claims.Perfil, Nome: claims.Nome, Modulos: claims.Modulos})
		c.Next()
	}
}

// RequireModulo rejects sessions without any of the listed module keys.
func RequireModulo(modulos ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessao, ok := GetSessao(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticação necessária"))
			return
		}
		for _, m := range modulos {
			if sessao.Permite(m) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Seu perfil não tem acesso a esta página"))
	}
}

// GetSessao is a helper to retrieve the session from the Gin context.
func GetSessao(c *gin.Context) (model.Sessao, bool) {
	v, exists := c.Get(SessaoKey)
	if !exists {
		return model.Sessao{}, false
	}
	s, ok := v.(model.Sessao)
	return s, ok
}
