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
	"time"

	"freightdesk/internal/costing"
	"freightdesk/internal/middleware"
	"freightdesk/internal/repository"
	"freightdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-secret"

type stubQuotations struct {
	service.QuotationService
	approveErr error
	calculated service.CalculateRequest
	approvedBy string
}

func (s *stubQuotations) Calculate(_ context.Context, req service.CalculateRequest) costing.QuotationTotals {
	s.calculated = req
	return costing.QuotationTotals{GrandTotal: decimal.NewFromInt(14568750), TotalItems: len(req.CargoItems)}
}

func (s *stubQuotations) ApproveQuotation(_ context.Context, id, userID string) (*service.QuotationResponse, error) {
	s.approvedBy = userID
	if s.approveErr != nil {
		return nil, s.approveErr
	}
	return &service.QuotationResponse{}, nil
}

type stubOperational struct {
	service.OperationalService
	from, to time.Time
}

func (s *stubOperational) ProfitabilitySummary(_ context.Context, from, to time.Time) (service.ProfitabilitySummary, error) {
	s.from, s.to = from, to
	return service.ProfitabilitySummary{Records: 2, OverallProfitability: costing.ProfitabilityProfit}, nil
}

type stubHSCodes struct {
	service.HSCodeService
	date time.Time
}

func (s *stubHSCodes) LookupActive(_ context.Context, code string, date time.Time) (service.HSCodeRateResponse, error) {
	s.date = date
	if code == "0000" {
		return service.HSCodeRateResponse{}, fmt.Errorf("lookup %s: %w", code, service.ErrHSCodeNotFound)
	}
	return service.HSCodeRateResponse{Code: code}, nil
}

type stubAudit struct {
	service.AuditService
	filter repository.AuditFilter
	page   int
}

func (s *stubAudit) GetAuditLogs(_ context.Context, filter repository.AuditFilter, page, limit int) ([]service.AuditLogResponse, int64, error) {
	s.filter, s.page = filter, page
	return []service.AuditLogResponse{}, 0, nil
}

func token(t *testing.T, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-7",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newRouter(register func(*gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r.Group(""))
	return r
}

func do(t *testing.T, r http.Handler, method, path, role string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, role))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrInvalidID, http.StatusBadRequest},
		{fmt.Errorf("rate: %w", service.ErrInvalidInput), http.StatusBadRequest},
		{service.ErrQuotationNotFound, http.StatusNotFound},
		{fmt.Errorf("item: %w", service.ErrCargoItemNotFound), http.StatusNotFound},
		{costing.ErrCostNotFound, http.StatusNotFound},
		{service.ErrOperationalRecordNotFound, http.StatusNotFound},
		{service.ErrQuotationLocked, http.StatusConflict},
		{service.ErrInvalidStatusTransition, http.StatusConflict},
		{service.ErrHSCodeOverlap, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, statusFor(tt.err), tt.err.Error())
	}
}

func TestQuotationRoutes(t *testing.T) {
	auth := middleware.NewAuth(testSecret)
	stub := &stubQuotations{}
	r := newRouter(NewQuotationHandler(stub, auth).RegisterRoutes)

	t.Run("unauthenticated", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPost, "/api/quotations/calculate", "", service.CalculateRequest{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("calculate", func(t *testing.T) {
		req := service.CalculateRequest{CargoItems: []service.CargoItemRequest{{Description: "Pump"}}}
		w, body := do(t, r, http.MethodPost, "/api/quotations/calculate", middleware.RoleStaff, req)
		require.Equal(t, http.StatusOK, w.Code)

		data := body["data"].(map[string]any)
		assert.Equal(t, "14568750", data["grand_total"])
		assert.EqualValues(t, 1, data["total_items"])
		assert.Equal(t, "Pump", stub.calculated.CargoItems[0].Description)
	})

	t.Run("staff cannot approve", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPut, "/api/quotations/abc/approve", middleware.RoleStaff, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("approve passes caller", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPut, "/api/quotations/abc/approve", middleware.RoleManager, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-7", stub.approvedBy)
	})

	t.Run("approve conflict", func(t *testing.T) {
		stub.approveErr = fmt.Errorf("approve: %w", service.ErrInvalidStatusTransition)
		defer func() { stub.approveErr = nil }()

		w, body := do(t, r, http.MethodPut, "/api/quotations/abc/approve", middleware.RoleAdmin, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "error", body["status"])
	})

	t.Run("internal errors are masked", func(t *testing.T) {
		stub.approveErr = errors.New("pq: deadlock detected")
		defer func() { stub.approveErr = nil }()

		w, body := do(t, r, http.MethodPut, "/api/quotations/abc/approve", middleware.RoleAdmin, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", body["error"])
	})

	t.Run("create rejects unknown type", func(t *testing.T) {
		w, _ := do(t, r, http.MethodPost, "/api/quotations", middleware.RoleStaff, map[string]any{"type": "X"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStatisticsWindow(t *testing.T) {
	auth := middleware.NewAuth(testSecret)
	stub := &stubOperational{}
	h := NewStatisticsHandler(stub, auth)
	h.now = func() time.Time { return time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC) }
	r := newRouter(h.RegisterRoutes)

	w, body := do(t, r, http.MethodGet, "/api/statistics/profitability", middleware.RoleManager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), stub.from)
	assert.Equal(t, h.now(), stub.to)
	assert.Equal(t, "Profit", body["data"].(map[string]any)["overall_profitability"])

	w, _ = do(t, r, http.MethodGet, "/api/statistics/profitability?from=2026-03-10&to=2026-03-01", middleware.RoleManager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/statistics/profitability", middleware.RoleStaff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHSCodeLookup(t *testing.T) {
	auth := middleware.NewAuth(testSecret)
	stub := &stubHSCodes{}
	h := NewHSCodeHandler(stub, auth)
	today := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return today }
	r := newRouter(h.RegisterRoutes)

	w, _ := do(t, r, http.MethodGet, "/api/hs-codes/lookup/8413.70", middleware.RoleStaff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, today, stub.date)

	w, _ = do(t, r, http.MethodGet, "/api/hs-codes/lookup/8413.70?date=2025-12-31", middleware.RoleStaff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), stub.date)

	w, _ = do(t, r, http.MethodGet, "/api/hs-codes/lookup/8413.70?date=31-12-2025", middleware.RoleStaff, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/hs-codes/lookup/0000", middleware.RoleStaff, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/hs-codes", middleware.RoleStaff, service.HSCodeRateRequest{Code: "8413"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuditFilters(t *testing.T) {
	auth := middleware.NewAuth(testSecret)
	stub := &stubAudit{}
	r := newRouter(NewAuditHandler(stub, auth).RegisterRoutes)

	w, body := do(t, r, http.MethodGet, "/api/audit-logs?entity_id=q-1&action=APPROVE_QUOTATION&page=2", middleware.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, repository.AuditFilter{EntityID: "q-1", Action: "APPROVE_QUOTATION"}, stub.filter)
	assert.Equal(t, 2, stub.page)
	assert.EqualValues(t, 2, body["data"].(map[string]any)["page"])
}
