package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freightdesk/internal/costing"
	"freightdesk/internal/metrics"
	"freightdesk/internal/model"
	"freightdesk/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// UpdateActualCostsRequest carries actual costs per category, in base currency.
type UpdateActualCostsRequest struct {
	ActualOriginCost      decimal.Decimal `json:"actual_origin_cost"`
	ActualFreightCost     decimal.Decimal `json:"actual_freight_cost"`
	ActualDestinationCost decimal.Decimal `json:"actual_destination_cost"`
	ActualAdditionalCost  decimal.Decimal `json:"actual_additional_cost"`
}

type AdditionalCostRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

type OperationalRecordResponse struct {
	*model.OperationalCostRecord
	Reconciliation costing.RecordReconciliation `json:"reconciliation"`
}

type ProfitabilitySummary struct {
	From                 string                `json:"from"`
	To                   string                `json:"to"`
	Records              int                   `json:"records"`
	ByClassification     map[string]int        `json:"by_classification"`
	TotalQuotationCost   decimal.Decimal       `json:"total_quotation_cost"`
	TotalOperationalCost decimal.Decimal       `json:"total_operational_cost"`
	TotalCostDifference  decimal.Decimal       `json:"total_cost_difference"`
	TotalMargin          decimal.Decimal       `json:"total_margin"`
	OverallProfitability costing.Profitability `json:"overall_profitability"`
}

// --- Interface ---

type OperationalService interface {
	GetRecord(ctx context.Context, quotationID string) (*OperationalRecordResponse, error)
	ListRecords(ctx context.Context, page, limit int) ([]OperationalRecordResponse, int64, error)
	UpdateActualCosts(ctx context.Context, quotationID, itemID, userID string, req UpdateActualCostsRequest) (*OperationalRecordResponse, error)
	AddAdditionalCost(ctx context.Context, quotationID, itemID, userID string, req AdditionalCostRequest) (*OperationalRecordResponse, error)
	UpdateAdditionalCost(ctx context.Context, quotationID, itemID, costID, userID string, req AdditionalCostRequest) (*OperationalRecordResponse, error)
	RemoveAdditionalCost(ctx context.Context, quotationID, itemID, costID, userID string) (*OperationalRecordResponse, error)
	ProfitabilitySummary(ctx context.Context, from, to time.Time) (ProfitabilitySummary, error)
}

type operationalService struct {
	txManager  repository.TransactionManager
	records    repository.OperationalRepository
	audit      repository.AuditRepository
	normalizer costing.Normalizer
	events     EventPublisher
	metrics    *metrics.Domain
	log        zerolog.Logger
}

func NewOperationalService(
	txManager repository.TransactionManager,
	records repository.OperationalRepository,
	audit repository.AuditRepository,
	normalizer costing.Normalizer,
	events EventPublisher,
	m *metrics.Domain,
	log zerolog.Logger,
) OperationalService {
	return &operationalService{
		txManager:  txManager,
		records:    records,
		audit:      audit,
		normalizer: normalizer,
		events:     publisherOrNoop(events),
		metrics:    m,
		log:        log.With().Str("component", "operational_service").Logger(),
	}
}

// --- Implementation ---

func (s *operationalService) GetRecord(ctx context.Context, quotationID string) (*OperationalRecordResponse, error) {
	record, err := s.find(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(record), nil
}

func (s *operationalService) ListRecords(ctx context.Context, page, limit int) ([]OperationalRecordResponse, int64, error) {
	records, total, err := s.records.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch operational records: %w", err)
	}
	res := make([]OperationalRecordResponse, 0, len(records))
	for i := range records {
		res = append(res, *s.reconcile(&records[i]))
	}
	return res, total, nil
}

func (s *operationalService) UpdateActualCosts(ctx context.Context, quotationID, itemID, userID string, req UpdateActualCostsRequest) (*OperationalRecordResponse, error) {
	return s.mutateItem(ctx, quotationID, itemID, userID, "update_actual_costs", func(item *model.OperationalItem) error {
		item.Operational = costing.OperationalCosts{
			ActualOriginCost:      costing.Sanitize(req.ActualOriginCost),
			ActualFreightCost:     costing.Sanitize(req.ActualFreightCost),
			ActualDestinationCost: costing.Sanitize(req.ActualDestinationCost),
			ActualAdditionalCost:  costing.Sanitize(req.ActualAdditionalCost),
		}
		return nil
	})
}

func (s *operationalService) AddAdditionalCost(ctx context.Context, quotationID, itemID, userID string, req AdditionalCostRequest) (*OperationalRecordResponse, error) {
	return s.mutateItem(ctx, quotationID, itemID, userID, "add_additional_cost", func(item *model.OperationalItem) error {
		item.AdditionalCosts.Add(req.Description, req.Amount, req.Currency)
		return nil
	})
}

func (s *operationalService) UpdateAdditionalCost(ctx context.Context, quotationID, itemID, costID, userID string, req AdditionalCostRequest) (*OperationalRecordResponse, error) {
	cid, err := parseID(costID)
	if err != nil {
		return nil, err
	}
	return s.mutateItem(ctx, quotationID, itemID, userID, "update_additional_cost", func(item *model.OperationalItem) error {
		_, err := item.AdditionalCosts.Update(cid, req.Description, req.Amount, req.Currency)
		return err
	})
}

func (s *operationalService) RemoveAdditionalCost(ctx context.Context, quotationID, itemID, costID, userID string) (*OperationalRecordResponse, error) {
	cid, err := parseID(costID)
	if err != nil {
		return nil, err
	}
	return s.mutateItem(ctx, quotationID, itemID, userID, "remove_additional_cost", func(item *model.OperationalItem) error {
		return item.AdditionalCosts.Remove(cid)
	})
}

// ProfitabilitySummary aggregates records approved within [from, to].
func (s *operationalService) ProfitabilitySummary(ctx context.Context, from, to time.Time) (ProfitabilitySummary, error) {
	records, err := s.records.ListApprovedBetween(ctx, from, to)
	if err != nil {
		return ProfitabilitySummary{}, fmt.Errorf("failed to fetch operational records: %w", err)
	}

	summary := ProfitabilitySummary{
		From:    from.Format(dateLayout),
		To:      to.Format(dateLayout),
		Records: len(records),
		ByClassification: map[string]int{
			string(costing.ProfitabilityNormal):    0,
			string(costing.ProfitabilityProfit):    0,
			string(costing.ProfitabilityLoss):      0,
			string(costing.ProfitabilityBreakEven): 0,
		},
		OverallProfitability: costing.ProfitabilityNormal,
	}
	recorded := false
	for _, record := range records {
		rec := s.normalizer.ReconcileRecord(record.Lines(), record.ExchangeRate)
		summary.ByClassification[string(rec.OverallProfitability)]++
		summary.TotalQuotationCost = summary.TotalQuotationCost.Add(rec.TotalQuotationCost)
		summary.TotalOperationalCost = summary.TotalOperationalCost.Add(rec.TotalOperationalCost)
		summary.TotalCostDifference = summary.TotalCostDifference.Add(rec.TotalCostDifference)
		summary.TotalMargin = summary.TotalMargin.Add(rec.TotalMargin)
		recorded = recorded || rec.OverallProfitability != costing.ProfitabilityNormal
	}
	if recorded {
		summary.OverallProfitability = costing.Classify(summary.TotalMargin)
	}
	return summary, nil
}

// --- Helpers ---

// mutateItem applies fn to one item and persists its mutable columns. The
// reconciliation returned is recomputed over the whole record.
func (s *operationalService) mutateItem(ctx context.Context, quotationID, itemID, userID, op string, fn func(item *model.OperationalItem) error) (*OperationalRecordResponse, error) {
	iid, err := parseID(itemID)
	if err != nil {
		return nil, err
	}

	var record *model.OperationalCostRecord
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		record, err = s.find(txCtx, quotationID)
		if err != nil {
			return err
		}
		idx := record.FindItem(iid)
		if idx < 0 {
			return ErrCargoItemNotFound
		}

		item := &record.Items[idx]
		if item.AdditionalCosts == nil {
			item.AdditionalCosts = costing.OtherCosts{}
		}
		if err := fn(item); err != nil {
			return err
		}
		item.ActualsRecorded = true
		if err := s.records.UpdateItem(txCtx, item); err != nil {
			return fmt.Errorf("failed to update operational item: %w", err)
		}
		return writeAudit(txCtx, s.audit, userID, model.ActionUpdateOperationalCosts, record.ID.String(), record.QuotationNo, map[string]string{
			"op":      op,
			"item_id": item.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	res := s.reconcile(record)
	s.metrics.OperationalUpdated(string(res.Reconciliation.OverallProfitability))
	s.events.Publish(EventOperationalUpdated, map[string]string{
		"quotation_id":          record.QuotationID.String(),
		"quotation_no":          record.QuotationNo,
		"item_id":               iid.String(),
		"total_margin":          res.Reconciliation.TotalMargin.String(),
		"overall_profitability": string(res.Reconciliation.OverallProfitability),
	})
	s.log.Info().
		Str("quotation_no", record.QuotationNo).
		Str("op", op).
		Str("profitability", string(res.Reconciliation.OverallProfitability)).
		Msg("operational costs updated")
	return res, nil
}

func (s *operationalService) find(ctx context.Context, quotationID string) (*model.OperationalCostRecord, error) {
	qid, err := parseID(quotationID)
	if err != nil {
		return nil, err
	}
	record, err := s.records.FindByQuotationID(ctx, qid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperationalRecordNotFound
		}
		return nil, fmt.Errorf("failed to fetch operational record: %w", err)
	}
	return record, nil
}

func (s *operationalService) reconcile(record *model.OperationalCostRecord) *OperationalRecordResponse {
	return &OperationalRecordResponse{
		OperationalCostRecord: record,
		Reconciliation:        s.normalizer.ReconcileRecord(record.Lines(), record.ExchangeRate),
	}
}
