package handler

import (
	"errors"
	"net/http"

	"straublot/internal/apierror"
	"straublot/internal/dto"
	"straublot/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Perfis godoc
// @Summary Lista os perfis exibidos no seletor de login
// @Tags auth
// @Produce json
// @Success 200 {array} dto.PerfilResponse
// @Router /v1/auth/perfis [get]
func (h *AuthHandler) Perfis(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListarPerfis())
}

// Login godoc
// @Summary Login por perfil e senha compartilhada
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Perfil e senha"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if errors.Is(err, service.ErrCredenciaisInvalidas) {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sessao godoc
// @Summary Sessão atual do token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessaoResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/sessao [get]
func (h *AuthHandler) Sessao(c *gin.Context) {
	s, ok := sessao(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, service.SessaoParaDTO(s))
}
