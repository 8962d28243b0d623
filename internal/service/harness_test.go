package service

import (
	"context"
	"testing"
	"time"

	"freightdesk/internal/costing"
	"freightdesk/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUserID = "7b0d7d1e-6a41-4a7e-9a55-0d7f3b1f4a10"

type harness struct {
	db          *memDB
	quotations  *fakeQuotationRepo
	operational *fakeOperationalRepo
	hsRepo      *fakeHSCodeRepo
	events      *fakePublisher
	metrics     *metrics.Registry
	hsCodes     HSCodeService
	quotes      QuotationService
	ops         OperationalService
	now         time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := newMemDB()
	h := &harness{
		db:          db,
		quotations:  &fakeQuotationRepo{db: db},
		operational: &fakeOperationalRepo{db: db},
		hsRepo:      &fakeHSCodeRepo{db: db},
		events:      &fakePublisher{},
		metrics:     metrics.New(),
		now:         time.Date(2026, time.March, 9, 10, 30, 0, 0, time.UTC),
	}
	tx := fakeTxManager{db: db}
	audit := &fakeAuditRepo{db: db}
	normalizer := costing.DefaultNormalizer()

	h.hsCodes = NewHSCodeService(tx, h.hsRepo, audit, nil, h.metrics.Domain, zerolog.Nop())
	h.quotes = NewQuotationService(QuotationDeps{
		TxManager:   tx,
		Quotations:  h.quotations,
		Operational: h.operational,
		Audit:       audit,
		HSCodes:     h.hsCodes,
		Normalizer:  normalizer,
		DefaultRate: decimal.NewFromInt(15000),
		Events:      h.events,
		Metrics:     h.metrics.Domain,
		Logger:      zerolog.Nop(),
		Now:         func() time.Time { return h.now },
	})
	h.ops = NewOperationalService(tx, h.operational, audit, normalizer, h.events, h.metrics.Domain, zerolog.Nop())
	return h
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

// scenarioItem is the single IDR cargo item of the reference quotation.
func scenarioItem() CargoItemRequest {
	return CargoItemRequest{
		Description:   "Industrial pumps",
		Value:         d("10000000"),
		ValueCurrency: "IDR",
		Currency:      "IDR",
		Costs: costing.CostFields{
			BasicFreight:  d("2000000"),
			InsuranceCost: d("500000"),
		},
	}
}

func scenarioRequest() CreateQuotationRequest {
	return CreateQuotationRequest{
		Type: "I",
		QuotationParams: QuotationParams{
			CustomerName:  "PT Samudra",
			ImportDutyPct: d("5"),
			VATPct:        d("11"),
			SellingPrice:  d("15000000"),
		},
		CargoItems: []CargoItemRequest{scenarioItem()},
	}
}

func (h *harness) createScenario(t *testing.T) *QuotationResponse {
	t.Helper()
	q, err := h.quotes.CreateQuotation(context.Background(), testUserID, scenarioRequest())
	require.NoError(t, err)
	return q
}
