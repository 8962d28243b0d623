package handler

import (
	"net/http"

	"freightdesk/internal/middleware"
	"freightdesk/internal/service"
	"freightdesk/pkg/pagination"
	"freightdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type QuotationHandler struct {
	quotationService service.QuotationService
	auth             *middleware.Auth
}

func NewQuotationHandler(quotationService service.QuotationService, auth *middleware.Auth) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService, auth: auth}
}

func (h *QuotationHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/quotations")
	group.Use(h.auth.RequireRole(middleware.RoleAdmin, middleware.RoleManager, middleware.RoleStaff))
	{
		group.POST("/calculate", h.Calculate)
		group.GET("", h.ListQuotations)
		group.POST("", h.CreateQuotation)
		group.GET("/:id", h.GetQuotation)
		group.PUT("/:id", h.UpdateQuotation)
		group.POST("/:id/duplicate", h.DuplicateQuotation)

		group.POST("/:id/items", h.AddCargoItem)
		group.PUT("/:id/items/:itemId", h.UpdateCargoItem)
		group.DELETE("/:id/items/:itemId", h.RemoveCargoItem)
		group.PUT("/:id/items/:itemId/hs-code", h.ApplyHSCode)

		group.POST("/:id/other-costs", h.AddOtherCost)
		group.PUT("/:id/other-costs/:costId", h.UpdateOtherCost)
		group.DELETE("/:id/other-costs/:costId", h.RemoveOtherCost)

		group.PUT("/:id/reopen", h.ReopenQuotation)
	}

	decisions := router.Group("/api/quotations")
	decisions.Use(h.auth.RequireRole(middleware.RoleAdmin, middleware.RoleManager))
	{
		decisions.PUT("/:id/approve", h.ApproveQuotation)
		decisions.PUT("/:id/reject", h.RejectQuotation)
	}
}

// Calculate previews totals without saving anything
// @Summary      Preview quotation totals
// @Tags         quotations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body service.CalculateRequest true "Unsaved quotation"
// @Success      200 {object} response.Response{data=costing.QuotationTotals}
// @Failure      400 {object} response.Response
// @Router       /api/quotations/calculate [post]
func (h *QuotationHandler) Calculate(c *gin.Context) {
	var req service.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.quotationService.Calculate(c.Request.Context(), req)))
}

// @Summary      List quotations
// @Tags         quotations
// @Security     BearerAuth
// @Produce      json
// @Param        status query string false "Draft, Approved or Rejected"
// @Param        type   query string false "I, E or D"
// @Param        search query string false "Quotation number or customer"
// @Param        page   query int    false "Page number (default 1)"
// @Param        limit  query int    false "Items per page (default 20)"
// @Success      200 {object} response.Response{data=response.Page}
// @Router       /api/quotations [get]
func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.quotationService.ListQuotations(c.Request.Context(), service.QuotationFilter{
		Status: c.Query("status"),
		Type:   c.Query("type"),
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, items, total, p.Page, p.Limit))
}

// @Summary      Create quotation
// @Tags         quotations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body service.CreateQuotationRequest true "Quotation"
// @Success      201 {object} response.Response{data=service.QuotationResponse}
// @Failure      400 {object} response.Response
// @Router       /api/quotations [post]
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var req service.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	q, err := h.quotationService.CreateQuotation(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, q))
}

// @Summary      Get quotation with computed totals
// @Tags         quotations
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Failure      404 {object} response.Response
// @Router       /api/quotations/{id} [get]
func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	q, err := h.quotationService.GetQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, q))
}

// @Summary      Update quotation parameters
// @Tags         quotations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Quotation ID"
// @Param        request body service.UpdateQuotationRequest true "Parameters"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Failure      409 {object} response.Response "Quotation is approved"
// @Router       /api/quotations/{id} [put]
func (h *QuotationHandler) UpdateQuotation(c *gin.Context) {
	var req service.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.reply(c, http.StatusOK)(h.quotationService.UpdateQuotation(c.Request.Context(), c.Param("id"), middleware.UserID(c), req))
}

// @Summary      Duplicate quotation as a new draft
// @Tags         quotations
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      201 {object} response.Response{data=service.QuotationResponse}
// @Router       /api/quotations/{id}/duplicate [post]
func (h *QuotationHandler) DuplicateQuotation(c *gin.Context) {
	h.reply(c, http.StatusCreated)(h.quotationService.DuplicateQuotation(c.Request.Context(), c.Param("id"), middleware.UserID(c)))
}

// @Summary      Add cargo item
// @Tags         quotations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Quotation ID"
// @Param        request body service.CargoItemRequest true "Cargo item"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Router       /api/quotations/{id}/items [post]
func (h *QuotationHandler) AddCargoItem(c *gin.Context) {
	var req service.CargoItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.reply(c, http.StatusOK)(h.quotationService.AddCargoItem(c.Request.Context(), c.Param("id"), middleware.UserID(c), req))
}

// @Summary      Replace cargo item
// @Tags         quotations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Quotation ID"
// @Param        itemId  path string                   true "Cargo item ID"
// @Param        request body service.CargoItemRequest true "Cargo item"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Router       /api/quotations/{id}/items/{itemId} [put]
func (h *QuotationHandler) UpdateCargoItem(c *gin.Context) {
	var req service.CargoItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.reply(c, http.StatusOK)(h.quotationService.UpdateCargoItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), middleware.UserID(c), req))
}

// @Summary      Remove cargo item
// @Tags         quotations
// @Security     BearerAuth
// @Produce      json
// @Param        id     path string true "Quotation ID"
// @Param        itemId path string true "Cargo item ID"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Router       /api/quotations/{id}/items/{itemId} [delete]
func (h *QuotationHandler) RemoveCargoItem(c *gin.Context) {
	h.reply(c, http.StatusOK)(h.quotationService.RemoveCargoItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), middleware.UserID(c)))
}

// @Summary      Classify cargo item by HS code
// @Tags         quotations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Quotation ID"
// @Param        itemId  path string                     true "Cargo item ID"
// @Param        request body service.ApplyHSCodeRequest true "HS code"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Failure      404 {object} response.Response "No active rate"
// @Router       /api/quotations/{id}/items/{itemId}/hs-code [put]
func (h *QuotationHandler) ApplyHSCode(c *gin.Context) {
	var req service.ApplyHSCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.reply(c, http.StatusOK)(h.quotationService.ApplyHSCode(c.Request.Context(), c.Param("id"), c.Param("itemId"), middleware.UserID(c), req))
}

// @Summary      Add other cost
// @Tags         quotations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Quotation ID"
// @Param        request body service.OtherCostRequest true "Cost"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Router       /api/quotations/{id}/other-costs [post]
func (h *QuotationHandler) AddOtherCost(c *gin.Context) {
	var req service.OtherCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.reply(c, http.StatusOK)(h.quotationService.AddOtherCost(c.Request.Context(), c.Param("id"), middleware.UserID(c), req))
}

// @Summary      Update other cost
// @Tags         quotations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Quotation ID"
// @Param        costId  path string                   true "Cost ID"
// @Param        request body service.OtherCostRequest true "Cost"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Router       /api/quotations/{id}/other-costs/{costId} [put]
func (h *QuotationHandler) UpdateOtherCost(c *gin.Context) {
	var req service.OtherCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.reply(c, http.StatusOK)(h.quotationService.UpdateOtherCost(c.Request.Context(), c.Param("id"), c.Param("costId"), middleware.UserID(c), req))
}

// @Summary      Remove other cost
// @Tags         quotations
// @Security     BearerAuth
// @Produce      json
// @Param        id     path string true "Quotation ID"
// @Param        costId path string true "Cost ID"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Router       /api/quotations/{id}/other-costs/{costId} [delete]
func (h *QuotationHandler) RemoveOtherCost(c *gin.Context) {
	h.reply(c, http.StatusOK)(h.quotationService.RemoveOtherCost(c.Request.Context(), c.Param("id"), c.Param("costId"), middleware.UserID(c)))
}

// @Summary      Approve quotation
// @Description  Locks the quotation and opens its operational cost record
// @Tags         quotations
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Failure      409 {object} response.Response "Not a draft"
// @Router       /api/quotations/{id}/approve [put]
func (h *QuotationHandler) ApproveQuotation(c *gin.Context) {
	h.reply(c, http.StatusOK)(h.quotationService.ApproveQuotation(c.Request.Context(), c.Param("id"), middleware.UserID(c)))
}

// @Summary      Reject quotation
// @Tags         quotations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string                         true  "Quotation ID"
// @Param        request body service.RejectQuotationRequest false "Reason"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Router       /api/quotations/{id}/reject [put]
func (h *QuotationHandler) RejectQuotation(c *gin.Context) {
	var req service.RejectQuotationRequest
	// Body is optional
	_ = c.ShouldBindJSON(&req)
	h.reply(c, http.StatusOK)(h.quotationService.RejectQuotation(c.Request.Context(), c.Param("id"), middleware.UserID(c), req))
}

// @Summary      Reopen rejected quotation as draft
// @Tags         quotations
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} response.Response{data=service.QuotationResponse}
// @Router       /api/quotations/{id}/reopen [put]
func (h *QuotationHandler) ReopenQuotation(c *gin.Context) {
	h.reply(c, http.StatusOK)(h.quotationService.ReopenQuotation(c.Request.Context(), c.Param("id"), middleware.UserID(c)))
}

func (h *QuotationHandler) reply(c *gin.Context, status int) func(*service.QuotationResponse, error) {
	return func(q *service.QuotationResponse, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(status, response.Success(status, q))
	}
}
