package handler

import (
	"net/http"

	"straublot/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Caixa godoc
// @Summary Cards, gráfico semanal e alerta de saldo do caixa interno
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardCaixaResponse
// @Failure 503 {object} apierror.APIError
// @Router /v1/dashboard/caixa [get]
func (h *DashboardHandler) Caixa(c *gin.Context) {
	resp, err := h.svc.Caixa(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
