package handler

import (
	"net/http"

	"freightdesk/internal/middleware"
	"freightdesk/internal/service"
	"freightdesk/pkg/pagination"
	"freightdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type OperationalHandler struct {
	operationalService service.OperationalService
	auth               *middleware.Auth
}

func NewOperationalHandler(operationalService service.OperationalService, auth *middleware.Auth) *OperationalHandler {
	return &OperationalHandler{operationalService: operationalService, auth: auth}
}

func (h *OperationalHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/operational-costs")
	group.Use(h.auth.RequireRole(middleware.RoleAdmin, middleware.RoleManager, middleware.RoleStaff))
	{
		group.GET("", h.ListRecords)
		group.GET("/:quotationId", h.GetRecord)
		group.PUT("/:quotationId/items/:itemId", h.UpdateActualCosts)
		group.POST("/:quotationId/items/:itemId/additional-costs", h.AddAdditionalCost)
		group.PUT("/:quotationId/items/:itemId/additional-costs/:costId", h.UpdateAdditionalCost)
		group.DELETE("/:quotationId/items/:itemId/additional-costs/:costId", h.RemoveAdditionalCost)
	}
}

// @Summary      List operational cost records
// @Tags         operational-costs
// @Security     BearerAuth
// @Produce      json
// @Param        page   query int false "Page number (default 1)"
// @Param        limit  query int false "Items per page (default 20)"
// @Success      200 {object} response.Response{data=response.Page}
// @Router       /api/operational-costs [get]
func (h *OperationalHandler) ListRecords(c *gin.Context) {
	p := pagination.Parse(c)
	records, total, err := h.operationalService.ListRecords(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, records, total, p.Page, p.Limit))
}

// @Summary      Get operational cost record with reconciliation
// @Tags         operational-costs
// @Security     BearerAuth
// @Produce      json
// @Param        quotationId path string true "Quotation ID"
// @Success      200 {object} response.Response{data=service.OperationalRecordResponse}
// @Failure      404 {object} response.Response
// @Router       /api/operational-costs/{quotationId} [get]
func (h *OperationalHandler) GetRecord(c *gin.Context) {
	h.reply(c)(h.operationalService.GetRecord(c.Request.Context(), c.Param("quotationId")))
}

// @Summary      Record actual costs for an item
// @Description  Amounts are per category in base currency. Negative values are stored as zero.
// @Tags         operational-costs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        quotationId path string                           true "Quotation ID"
// @Param        itemId      path string                           true "Operational item ID"
// @Param        request     body service.UpdateActualCostsRequest true "Actual costs"
// @Success      200 {object} response.Response{data=service.OperationalRecordResponse}
// @Router       /api/operational-costs/{quotationId}/items/{itemId} [put]
func (h *OperationalHandler) UpdateActualCosts(c *gin.Context) {
	var req service.UpdateActualCostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.reply(c)(h.operationalService.UpdateActualCosts(c.Request.Context(), c.Param("quotationId"), c.Param("itemId"), middleware.UserID(c), req))
}

// @Summary      Add additional cost to an item
// @Tags         operational-costs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        quotationId path string                        true "Quotation ID"
// @Param        itemId      path string                        true "Operational item ID"
// @Param        request     body service.AdditionalCostRequest true "Cost"
// @Success      200 {object} response.Response{data=service.OperationalRecordResponse}
// @Router       /api/operational-costs/{quotationId}/items/{itemId}/additional-costs [post]
func (h *OperationalHandler) AddAdditionalCost(c *gin.Context) {
	var req service.AdditionalCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.reply(c)(h.operationalService.AddAdditionalCost(c.Request.Context(), c.Param("quotationId"), c.Param("itemId"), middleware.UserID(c), req))
}

// @Summary      Update additional cost
// @Tags         operational-costs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        quotationId path string                        true "Quotation ID"
// @Param        itemId      path string                        true "Operational item ID"
// @Param        costId      path string                        true "Cost ID"
// @Param        request     body service.AdditionalCostRequest true "Cost"
// @Success      200 {object} response.Response{data=service.OperationalRecordResponse}
// @Router       /api/operational-costs/{quotationId}/items/{itemId}/additional-costs/{costId} [put]
func (h *OperationalHandler) UpdateAdditionalCost(c *gin.Context) {
	var req service.AdditionalCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.reply(c)(h.operationalService.UpdateAdditionalCost(c.Request.Context(), c.Param("quotationId"), c.Param("itemId"), c.Param("costId"), middleware.UserID(c), req))
}

// @Summary      Remove additional cost
// @Tags         operational-costs
// @Security     BearerAuth
// @Produce      json
// @Param        quotationId path string true "Quotation ID"
// @Param        itemId      path string true "Operational item ID"
// @Param        costId      path string true "Cost ID"
// @Success      200 {object} response.Response{data=service.OperationalRecordResponse}
// @Router       /api/operational-costs/{quotationId}/items/{itemId}/additional-costs/{costId} [delete]
func (h *OperationalHandler) RemoveAdditionalCost(c *gin.Context) {
	h.reply(c)(h.operationalService.RemoveAdditionalCost(c.Request.Context(), c.Param("quotationId"), c.Param("itemId"), c.Param("costId"), middleware.UserID(c)))
}

func (h *OperationalHandler) reply(c *gin.Context) func(*service.OperationalRecordResponse, error) {
	return func(rec *service.OperationalRecordResponse, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
	}
}
