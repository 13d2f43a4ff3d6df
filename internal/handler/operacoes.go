package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"straublot/internal/apierror"
	"straublot/internal/dto"
	"straublot/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

type OperacoesHandler struct{ svc service.OperacaoService }

func NewOperacoesHandler(svc service.OperacaoService) *OperacoesHandler {
	return &OperacoesHandler{svc: svc}
}

// Simular godoc
// @Summary Calcula as taxas sem registrar a operação
// @Tags operacoes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OperacaoRequest true "Operação"
// @Success 200 {object} dto.CalculoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/operacoes/simular [post]
func (h *OperacoesHandler) Simular(c *gin.Context) {
	s, ok := sessao(c)
	if !ok {
		return
	}
	var req dto.OperacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Simular(c.Request.Context(), s, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Registrar godoc
// @Summary Calcula as taxas e grava a operação na planilha
// @Tags operacoes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OperacaoRequest true "Operação"
// @Success 201 {object} dto.RegistrarOperacaoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Failure 503 {object} apierror.APIError
// @Router /v1/operacoes [post]
func (h *OperacoesHandler) Registrar(c *gin.Context) {
	s, ok := sessao(c)
	if !ok {
		return
	}
	var req dto.OperacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), s, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Histórico de operações, mais recentes primeiro
// @Tags operacoes
// @Produce json
// @Security BearerAuth
// @Param data_inicio query string false "dd/mm/aaaa ou aaaa-mm-dd"
// @Param data_fim    query string false "dd/mm/aaaa ou aaaa-mm-dd"
// @Param tipo        query string false "Tipo de operação"
// @Param operador    query string false "Parte do nome do operador"
// @Success 200 {object} dto.ListaOperacoesResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/operacoes [get]
func (h *OperacoesHandler) Listar(c *gin.Context) {
	var filtro dto.FiltroOperacoes
	if err := c.ShouldBindQuery(&filtro); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filtro)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary Exporta o histórico filtrado em XLSX
// @Tags operacoes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param data_inicio query string false "dd/mm/aaaa ou aaaa-mm-dd"
// @Param data_fim    query string false "dd/mm/aaaa ou aaaa-mm-dd"
// @Param tipo        query string false "Tipo de operação"
// @Param operador    query string false "Parte do nome do operador"
// @Success 200 {file} file
// @Router /v1/operacoes/exportar [get]
func (h *OperacoesHandler) Exportar(c *gin.Context) {
	var filtro dto.FiltroOperacoes
	if err := c.ShouldBindQuery(&filtro); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	b, err := h.svc.Exportar(c.Request.Context(), filtro)
	if err != nil {
		responderErro(c, err)
		return
	}
	nome := fmt.Sprintf("operacoes_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+nome+`"`)
	c.Data(http.StatusOK, mimeXLSX, b)
}

// Comprovante godoc
// @Summary Comprovante em PDF da operação na linha informada
// @Tags operacoes
// @Produce application/pdf
// @Security BearerAuth
// @Param linha path int true "Linha da planilha (>= 2)"
// @Success 200 {file} file
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/operacoes/{linha}/comprovante [get]
func (h *OperacoesHandler) Comprovante(c *gin.Context) {
	linha, err := strconv.Atoi(c.Param("linha"))
	if err != nil || linha < 2 {
		c.JSON(http.StatusBadRequest, apierror.New("linha inválida"))
		return
	}
	b, err := h.svc.Comprovante(c.Request.Context(), linha)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="comprovante_%d.pdf"`, linha))
	c.Data(http.StatusOK, mimePDF, b)
}
