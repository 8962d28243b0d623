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

type HSCodeHandler struct {
	hsCodeService service.HSCodeService
	auth          *middleware.Auth
	now           func() time.Time
}

func NewHSCodeHandler(hsCodeService service.HSCodeService, auth *middleware.Auth) *HSCodeHandler {
	return &HSCodeHandler{hsCodeService: hsCodeService, auth: auth, now: time.Now}
}

func (h *HSCodeHandler) RegisterRoutes(router *gin.RouterGroup) {
	read := router.Group("/api/hs-codes")
	read.Use(h.auth.RequireRole(middleware.RoleAdmin, middleware.RoleManager, middleware.RoleStaff))
	{
		read.GET("", h.ListRates)
		read.GET("/lookup/:code", h.LookupRate)
	}

	write := router.Group("/api/hs-codes")
	write.Use(h.auth.RequireRole(middleware.RoleAdmin, middleware.RoleManager))
	{
		write.POST("", h.CreateRate)
		write.PUT("/:id", h.UpdateRate)
		write.DELETE("/:id", h.DeleteRate)
	}
}

// @Summary      List HS code rates
// @Tags         hs-codes
// @Security     BearerAuth
// @Produce      json
// @Param        code  query string false "Code prefix"
// @Param        page  query int    false "Page number (default 1)"
// @Param        limit query int    false "Items per page (default 20)"
// @Success      200 {object} response.Response{data=response.Page}
// @Router       /api/hs-codes [get]
func (h *HSCodeHandler) ListRates(c *gin.Context) {
	p := pagination.Parse(c)
	rates, total, err := h.hsCodeService.ListRates(c.Request.Context(), c.Query("code"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rates, total, p.Page, p.Limit))
}

// LookupRate returns the rate active on the given date (today by default)
// @Summary      Look up active HS code rate
// @Tags         hs-codes
// @Security     BearerAuth
// @Produce      json
// @Param        code path  string true  "HS code"
// @Param        date query string false "YYYY-MM-DD"
// @Success      200 {object} response.Response{data=service.HSCodeRateResponse}
// @Failure      404 {object} response.Response
// @Router       /api/hs-codes/lookup/{code} [get]
func (h *HSCodeHandler) LookupRate(c *gin.Context) {
	date := h.now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}
	rate, err := h.hsCodeService.LookupActive(c.Request.Context(), c.Param("code"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rate))
}

// @Summary      Create HS code rate
// @Tags         hs-codes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body service.HSCodeRateRequest true "Rate"
// @Success      201 {object} response.Response{data=service.HSCodeRateResponse}
// @Failure      409 {object} response.Response "Overlapping effective window"
// @Router       /api/hs-codes [post]
func (h *HSCodeHandler) CreateRate(c *gin.Context) {
	var req service.HSCodeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	rate, err := h.hsCodeService.CreateRate(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rate))
}

// @Summary      Update HS code rate
// @Tags         hs-codes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Rate ID"
// @Param        request body service.HSCodeRateRequest true "Rate"
// @Success      200 {object} response.Response{data=service.HSCodeRateResponse}
// @Router       /api/hs-codes/{id} [put]
func (h *HSCodeHandler) UpdateRate(c *gin.Context) {
	var req service.HSCodeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	rate, err := h.hsCodeService.UpdateRate(c.Request.Context(), c.Param("id"), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rate))
}

// @Summary      Delete HS code rate
// @Tags         hs-codes
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Rate ID"
// @Success      200 {object} response.Response
// @Router       /api/hs-codes/{id} [delete]
func (h *HSCodeHandler) DeleteRate(c *gin.Context) {
	if err := h.hsCodeService.DeleteRate(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
