package handler

import (
	"net/http"
	"time"

	"freightdesk/internal/middleware"
	"freightdesk/internal/service"
	"freightdesk/pkg/pagination"
	"freightdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	operationalService service.OperationalService
	auth               *middleware.Auth
	now                func() time.Time
}

func NewStatisticsHandler(operationalService service.OperationalService, auth *middleware.Auth) *StatisticsHandler {
	return &StatisticsHandler{operationalService: operationalService, auth: auth, now: time.Now}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/statistics")
	statsGroup.Use(h.auth.RequireRole(middleware.RoleAdmin, middleware.RoleManager))
	{
		statsGroup.GET("/profitability", h.GetProfitability)
	}
}

// @Summary      Profitability summary
// @Description  Rolls up quoted cost, actual cost and margin of quotations approved in the window
// @Tags         statistics
// @Security     BearerAuth
// @Produce      json
// @Param        from query string false "YYYY-MM-DD or RFC3339 (default: first day of this month)"
// @Param        to   query string false "YYYY-MM-DD or RFC3339 (default: now)"
// @Success      200 {object} response.Response{data=service.ProfitabilitySummary}
// @Failure      400 {object} response.Response "Invalid date range"
// @Router       /api/statistics/profitability [get]
func (h *StatisticsHandler) GetProfitability(c *gin.Context) {
	window, err := pagination.ParseWindow(c, h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	summary, err := h.operationalService.ProfitabilitySummary(c.Request.Context(), window.From, window.To)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
