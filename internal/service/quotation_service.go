package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freightdesk/internal/costing"
	"freightdesk/internal/metrics"
	"freightdesk/internal/model"
	"freightdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// QuotationParams are the global parameters shared by create, update and preview.
type QuotationParams struct {
	CustomerName         string              `json:"customer_name"`
	OriginPort           string              `json:"origin_port"`
	DestinationPort      string              `json:"destination_port"`
	ExchangeRate         decimal.Decimal     `json:"exchange_rate"` // zero = configured default
	ImportDutyPct        decimal.Decimal     `json:"import_duty_pct"`
	VATPct               decimal.Decimal     `json:"vat_pct"`
	ExcisePct            decimal.Decimal     `json:"excise_pct"`
	InsuranceCoveragePct decimal.Decimal     `json:"insurance_coverage_pct"`
	ServiceFees          costing.ServiceFees `json:"service_fees"`
	SellingPrice         decimal.Decimal     `json:"selling_price"`
}

type CargoItemRequest struct {
	Description         string             `json:"description"`
	WeightKg            decimal.Decimal    `json:"weight_kg"`
	VolumeCBM           decimal.Decimal    `json:"volume_cbm"`
	Value               decimal.Decimal    `json:"value"`
	ValueCurrency       string             `json:"value_currency"`
	Currency            string             `json:"currency"`
	Costs               costing.CostFields `json:"costs"`
	ContainerType       string             `json:"container_type"`
	ContainerNo         string             `json:"container_no"`
	SealNo              string             `json:"seal_no"`
	IsHazardous         bool               `json:"is_hazardous"`
	CertificateRequired bool               `json:"certificate_required"`
	InspectionRequired  bool               `json:"inspection_required"`
	QuarantineRequired  bool               `json:"quarantine_required"`
}

type OtherCostRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

type CreateQuotationRequest struct {
	Type string `json:"type" binding:"required,oneof=I E D"`
	QuotationParams
	CargoItems []CargoItemRequest `json:"cargo_items"`
	OtherCosts []OtherCostRequest `json:"other_costs"`
}

type UpdateQuotationRequest struct {
	QuotationParams
}

type CalculateRequest struct {
	QuotationParams
	CargoItems []CargoItemRequest `json:"cargo_items"`
	OtherCosts []OtherCostRequest `json:"other_costs"`
}

type ApplyHSCodeRequest struct {
	Code string `json:"code" binding:"required"`
	// ApplyToQuotation copies the rates onto the quotation's global percentages; default true.
	ApplyToQuotation *bool `json:"apply_to_quotation"`
}

type RejectQuotationRequest struct {
	Reason string `json:"reason"`
}

type QuotationFilter struct {
	Status string
	Type   string
	Search string
	Page   int
	Limit  int
}

type QuotationResponse struct {
	*model.Quotation
	Totals costing.QuotationTotals `json:"totals"`
}

type QuotationSummary struct {
	ID               string          `json:"id"`
	QuotationNo      string          `json:"quotation_no"`
	Type             string          `json:"type"`
	CustomerName     string          `json:"customer_name"`
	Status           string          `json:"status"`
	TotalItems       int             `json:"total_items"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	Margin           decimal.Decimal `json:"margin"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"`
	CreatedAt        string          `json:"created_at"`
}

// --- Interface ---

type QuotationService interface {
	CreateQuotation(ctx context.Context, userID string, req CreateQuotationRequest) (*QuotationResponse, error)
	GetQuotation(ctx context.Context, id string) (*QuotationResponse, error)
	ListQuotations(ctx context.Context, filter QuotationFilter) ([]QuotationSummary, int64, error)
	UpdateQuotation(ctx context.Context, id, userID string, req UpdateQuotationRequest) (*QuotationResponse, error)
	DuplicateQuotation(ctx context.Context, id, userID string) (*QuotationResponse, error)

	AddCargoItem(ctx context.Context, id, userID string, req CargoItemRequest) (*QuotationResponse, error)
	UpdateCargoItem(ctx context.Context, id, itemID, userID string, req CargoItemRequest) (*QuotationResponse, error)
	RemoveCargoItem(ctx context.Context, id, itemID, userID string) (*QuotationResponse, error)
	ApplyHSCode(ctx context.Context, id, itemID, userID string, req ApplyHSCodeRequest) (*QuotationResponse, error)

	AddOtherCost(ctx context.Context, id, userID string, req OtherCostRequest) (*QuotationResponse, error)
	UpdateOtherCost(ctx context.Context, id, costID, userID string, req OtherCostRequest) (*QuotationResponse, error)
	RemoveOtherCost(ctx context.Context, id, costID, userID string) (*QuotationResponse, error)

	Calculate(ctx context.Context, req CalculateRequest) costing.QuotationTotals

	ApproveQuotation(ctx context.Context, id, userID string) (*QuotationResponse, error)
	RejectQuotation(ctx context.Context, id, userID string, req RejectQuotationRequest) (*QuotationResponse, error)
	ReopenQuotation(ctx context.Context, id, userID string) (*QuotationResponse, error)
}

// QuotationDeps wires the quotation service.
type QuotationDeps struct {
	TxManager   repository.TransactionManager
	Quotations  repository.QuotationRepository
	Operational repository.OperationalRepository
	Audit       repository.AuditRepository
	HSCodes     HSCodeService
	Normalizer  costing.Normalizer
	DefaultRate decimal.Decimal
	Events      EventPublisher
	Metrics     *metrics.Domain
	Logger      zerolog.Logger
	Now         func() time.Time
}

type quotationService struct {
	txManager   repository.TransactionManager
	quotations  repository.QuotationRepository
	operational repository.OperationalRepository
	audit       repository.AuditRepository
	hsCodes     HSCodeService
	normalizer  costing.Normalizer
	defaultRate decimal.Decimal
	events      EventPublisher
	metrics     *metrics.Domain
	log         zerolog.Logger
	now         func() time.Time
}

func NewQuotationService(d QuotationDeps) QuotationService {
	s := &quotationService{
		txManager:   d.TxManager,
		quotations:  d.Quotations,
		operational: d.Operational,
		audit:       d.Audit,
		hsCodes:     d.HSCodes,
		normalizer:  d.Normalizer,
		defaultRate: d.DefaultRate,
		events:      publisherOrNoop(d.Events),
		metrics:     d.Metrics,
		log:         d.Logger.With().Str("component", "quotation_service").Logger(),
		now:         d.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if !s.defaultRate.IsPositive() {
		s.defaultRate = decimal.NewFromInt(1)
	}
	return s
}

// --- Implementation ---

func (s *quotationService) CreateQuotation(ctx context.Context, userID string, req CreateQuotationRequest) (*QuotationResponse, error) {
	q := &model.Quotation{
		ID:         uuid.New(),
		Type:       req.Type,
		Status:     model.QuotationStatusDraft,
		CreatedBy:  parseUserID(userID),
		OtherCosts: costing.OtherCosts{},
	}
	s.applyParams(q, req.QuotationParams)
	for i, item := range req.CargoItems {
		q.CargoItems = append(q.CargoItems, newCargoItem(q.ID, i, item))
	}
	for _, c := range req.OtherCosts {
		q.OtherCosts.Add(c.Description, c.Amount, c.Currency)
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		no, err := s.allocateNumber(txCtx, q.Type)
		if err != nil {
			return err
		}
		q.QuotationNo = no
		if err := s.quotations.Create(txCtx, q); err != nil {
			return fmt.Errorf("failed to create quotation: %w", err)
		}
		return writeAudit(txCtx, s.audit, userID, model.ActionCreateQuotation, q.ID.String(), q.QuotationNo, map[string]interface{}{
			"type":        q.Type,
			"cargo_items": len(q.CargoItems),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("quotation_id", q.ID.String()).Str("quotation_no", q.QuotationNo).Msg("quotation created")
	return s.withTotals(q), nil
}

func (s *quotationService) GetQuotation(ctx context.Context, id string) (*QuotationResponse, error) {
	q, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withTotals(q), nil
}

func (s *quotationService) ListQuotations(ctx context.Context, filter QuotationFilter) ([]QuotationSummary, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	quotations, total, err := s.quotations.List(ctx, repository.QuotationFilter{
		Status: filter.Status,
		Type:   filter.Type,
		Search: strings.TrimSpace(filter.Search),
	}, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch quotations: %w", err)
	}

	res := make([]QuotationSummary, 0, len(quotations))
	for i := range quotations {
		q := &quotations[i]
		totals := s.normalizer.Calculate(q.Input())
		res = append(res, QuotationSummary{
			ID:               q.ID.String(),
			QuotationNo:      q.QuotationNo,
			Type:             q.Type,
			CustomerName:     q.CustomerName,
			Status:           q.Status,
			TotalItems:       totals.TotalItems,
			GrandTotal:       totals.GrandTotal,
			SellingPrice:     totals.SellingPrice,
			Margin:           totals.Margin,
			MarginPercentage: totals.MarginPercentage,
			CreatedAt:        q.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, total, nil
}

func (s *quotationService) UpdateQuotation(ctx context.Context, id, userID string, req UpdateQuotationRequest) (*QuotationResponse, error) {
	return s.edit(ctx, id, userID, "update_parameters", func(txCtx context.Context, q *model.Quotation) error {
		s.applyParams(q, req.QuotationParams)
		return nil
	})
}

func (s *quotationService) DuplicateQuotation(ctx context.Context, id, userID string) (*QuotationResponse, error) {
	var dup *model.Quotation
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		src, err := s.find(txCtx, id)
		if err != nil {
			return err
		}

		dup = duplicateOf(src, parseUserID(userID))
		no, err := s.allocateNumber(txCtx, dup.Type)
		if err != nil {
			return err
		}
		dup.QuotationNo = no
		if err := s.quotations.Create(txCtx, dup); err != nil {
			return fmt.Errorf("failed to create duplicate quotation: %w", err)
		}
		return writeAudit(txCtx, s.audit, userID, model.ActionDuplicateQuotation, dup.ID.String(), dup.QuotationNo, map[string]string{
			"source_id": src.ID.String(),
			"source_no": src.QuotationNo,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.withTotals(dup), nil
}

func (s *quotationService) AddCargoItem(ctx context.Context, id, userID string, req CargoItemRequest) (*QuotationResponse, error) {
	return s.edit(ctx, id, userID, "add_cargo_item", func(txCtx context.Context, q *model.Quotation) error {
		position := 0
		for _, existing := range q.CargoItems {
			if existing.Position >= position {
				position = existing.Position + 1
			}
		}
		item := newCargoItem(q.ID, position, req)
		if err := s.quotations.CreateItem(txCtx, &item); err != nil {
			return fmt.Errorf("failed to add cargo item: %w", err)
		}
		q.CargoItems = append(q.CargoItems, item)
		return nil
	})
}

func (s *quotationService) UpdateCargoItem(ctx context.Context, id, itemID, userID string, req CargoItemRequest) (*QuotationResponse, error) {
	return s.editItem(ctx, id, itemID, userID, "update_cargo_item", func(txCtx context.Context, q *model.Quotation, idx int) error {
		current := q.CargoItems[idx]
		item := newCargoItem(q.ID, current.Position, req)
		item.ID = current.ID
		item.HSCode = current.HSCode
		item.HSDutyPct = current.HSDutyPct
		item.HSVATPct = current.HSVATPct
		item.HSExcisePct = current.HSExcisePct
		if err := s.quotations.UpdateItem(txCtx, &item); err != nil {
			return fmt.Errorf("failed to update cargo item: %w", err)
		}
		q.CargoItems[idx] = item
		return nil
	})
}

func (s *quotationService) RemoveCargoItem(ctx context.Context, id, itemID, userID string) (*QuotationResponse, error) {
	return s.editItem(ctx, id, itemID, userID, "remove_cargo_item", func(txCtx context.Context, q *model.Quotation, idx int) error {
		if err := s.quotations.DeleteItem(txCtx, q.ID, q.CargoItems[idx].ID); err != nil {
			return fmt.Errorf("failed to remove cargo item: %w", err)
		}
		q.CargoItems = append(q.CargoItems[:idx:idx], q.CargoItems[idx+1:]...)
		return nil
	})
}

func (s *quotationService) ApplyHSCode(ctx context.Context, id, itemID, userID string, req ApplyHSCodeRequest) (*QuotationResponse, error) {
	rate, err := s.hsCodes.LookupActive(ctx, req.Code, s.now())
	if err != nil {
		return nil, err
	}
	applyGlobal := req.ApplyToQuotation == nil || *req.ApplyToQuotation

	return s.editItem(ctx, id, itemID, userID, "apply_hs_code", func(txCtx context.Context, q *model.Quotation, idx int) error {
		item := &q.CargoItems[idx]
		item.HSCode = rate.Code
		item.HSDutyPct = rate.ImportDutyPct
		item.HSVATPct = rate.VATPct
		item.HSExcisePct = rate.ExcisePct
		if err := s.quotations.UpdateItem(txCtx, item); err != nil {
			return fmt.Errorf("failed to stamp hs code: %w", err)
		}
		if applyGlobal {
			q.ImportDutyPct = rate.ImportDutyPct
			q.VATPct = rate.VATPct
			q.ExcisePct = rate.ExcisePct
		}
		return nil
	})
}

func (s *quotationService) AddOtherCost(ctx context.Context, id, userID string, req OtherCostRequest) (*QuotationResponse, error) {
	return s.edit(ctx, id, userID, "add_other_cost", func(txCtx context.Context, q *model.Quotation) error {
		q.OtherCosts.Add(req.Description, req.Amount, req.Currency)
		return nil
	})
}

func (s *quotationService) UpdateOtherCost(ctx context.Context, id, costID, userID string, req OtherCostRequest) (*QuotationResponse, error) {
	cid, err := parseID(costID)
	if err != nil {
		return nil, err
	}
	return s.edit(ctx, id, userID, "update_other_cost", func(txCtx context.Context, q *model.Quotation) error {
		_, err := q.OtherCosts.Update(cid, req.Description, req.Amount, req.Currency)
		return err
	})
}

func (s *quotationService) RemoveOtherCost(ctx context.Context, id, costID, userID string) (*QuotationResponse, error) {
	cid, err := parseID(costID)
	if err != nil {
		return nil, err
	}
	return s.edit(ctx, id, userID, "remove_other_cost", func(txCtx context.Context, q *model.Quotation) error {
		return q.OtherCosts.Remove(cid)
	})
}

// Calculate previews totals for an unsaved document.
func (s *quotationService) Calculate(_ context.Context, req CalculateRequest) costing.QuotationTotals {
	q := &model.Quotation{OtherCosts: costing.OtherCosts{}}
	s.applyParams(q, req.QuotationParams)
	for i, item := range req.CargoItems {
		q.CargoItems = append(q.CargoItems, newCargoItem(q.ID, i, item))
	}
	for _, c := range req.OtherCosts {
		q.OtherCosts.Add(c.Description, c.Amount, c.Currency)
	}
	s.metrics.Calculated()
	return s.normalizer.Calculate(q.Input())
}

// ApproveQuotation moves a Draft to Approved and creates its operational
// cost record in the same transaction.
func (s *quotationService) ApproveQuotation(ctx context.Context, id, userID string) (*QuotationResponse, error) {
	var q *model.Quotation
	var record *model.OperationalCostRecord
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		q, err = s.find(txCtx, id)
		if err != nil {
			return err
		}
		if q.Status != model.QuotationStatusDraft {
			return fmt.Errorf("%w: cannot approve a %s quotation", ErrInvalidStatusTransition, q.Status)
		}

		exists, err := s.operational.ExistsForQuotation(txCtx, q.ID)
		if err != nil {
			return fmt.Errorf("failed to check operational record: %w", err)
		}
		if exists {
			return ErrOperationalRecordExists
		}

		now := s.now()
		q.Status = model.QuotationStatusApproved
		q.DecidedBy = parseUserID(userID)
		q.DecidedAt = &now
		q.RejectionReason = ""
		if err := s.quotations.Update(txCtx, q); err != nil {
			return fmt.Errorf("failed to update quotation: %w", err)
		}

		record = s.newOperationalRecord(q, now)
		if err := s.operational.Create(txCtx, record); err != nil {
			return fmt.Errorf("failed to create operational record: %w", err)
		}

		if err := writeAudit(txCtx, s.audit, userID, model.ActionApproveQuotation, q.ID.String(), q.QuotationNo, map[string]string{"status": q.Status}); err != nil {
			return err
		}
		return writeAudit(txCtx, s.audit, userID, model.ActionCreateOperationalRecord, record.ID.String(), q.QuotationNo, map[string]int{"items": len(record.Items)})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(model.QuotationStatusApproved)
	s.events.Publish(EventQuotationApproved, map[string]string{
		"quotation_id": q.ID.String(),
		"quotation_no": q.QuotationNo,
		"record_id":    record.ID.String(),
	})
	s.log.Info().Str("quotation_id", q.ID.String()).Str("quotation_no", q.QuotationNo).Msg("quotation approved")
	return s.withTotals(q), nil
}

func (s *quotationService) RejectQuotation(ctx context.Context, id, userID string, req RejectQuotationRequest) (*QuotationResponse, error) {
	q, err := s.transition(ctx, id, userID, model.QuotationStatusDraft, model.QuotationStatusRejected, model.ActionRejectQuotation, strings.TrimSpace(req.Reason))
	if err != nil {
		return nil, err
	}
	s.events.Publish(EventQuotationRejected, map[string]string{
		"quotation_id": q.ID.String(),
		"quotation_no": q.QuotationNo,
		"reason":       q.RejectionReason,
	})
	return s.withTotals(q), nil
}

func (s *quotationService) ReopenQuotation(ctx context.Context, id, userID string) (*QuotationResponse, error) {
	q, err := s.transition(ctx, id, userID, model.QuotationStatusRejected, model.QuotationStatusDraft, model.ActionReopenQuotation, "")
	if err != nil {
		return nil, err
	}
	return s.withTotals(q), nil
}

// --- Helpers ---

func (s *quotationService) transition(ctx context.Context, id, userID, from, to, action, reason string) (*model.Quotation, error) {
	var q *model.Quotation
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		q, err = s.find(txCtx, id)
		if err != nil {
			return err
		}
		if q.Status != from {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, q.Status, to)
		}

		q.Status = to
		q.RejectionReason = reason
		if to == model.QuotationStatusDraft {
			q.DecidedBy = nil
			q.DecidedAt = nil
		} else {
			now := s.now()
			q.DecidedBy = parseUserID(userID)
			q.DecidedAt = &now
		}
		if err := s.quotations.Update(txCtx, q); err != nil {
			return fmt.Errorf("failed to update quotation: %w", err)
		}
		return writeAudit(txCtx, s.audit, userID, action, q.ID.String(), q.QuotationNo, map[string]string{
			"from":   from,
			"to":     to,
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(to)
	s.log.Info().Str("quotation_id", q.ID.String()).Str("from", from).Str("to", to).Msg("quotation status changed")
	return q, nil
}

// edit loads an editable quotation, applies fn and saves the root document,
// all inside one transaction.
func (s *quotationService) edit(ctx context.Context, id, userID, op string, fn func(txCtx context.Context, q *model.Quotation) error) (*QuotationResponse, error) {
	var q *model.Quotation
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		q, err = s.find(txCtx, id)
		if err != nil {
			return err
		}
		if q.Status == model.QuotationStatusApproved {
			return ErrQuotationLocked
		}
		if err := fn(txCtx, q); err != nil {
			return err
		}
		if err := s.quotations.Update(txCtx, q); err != nil {
			return fmt.Errorf("failed to update quotation: %w", err)
		}
		return writeAudit(txCtx, s.audit, userID, model.ActionUpdateQuotation, q.ID.String(), q.QuotationNo, map[string]string{"op": op})
	})
	if err != nil {
		return nil, err
	}
	return s.withTotals(q), nil
}

func (s *quotationService) editItem(ctx context.Context, id, itemID, userID, op string, fn func(txCtx context.Context, q *model.Quotation, idx int) error) (*QuotationResponse, error) {
	iid, err := parseID(itemID)
	if err != nil {
		return nil, err
	}
	return s.edit(ctx, id, userID, op, func(txCtx context.Context, q *model.Quotation) error {
		idx := q.FindCargoItem(iid)
		if idx < 0 {
			return ErrCargoItemNotFound
		}
		return fn(txCtx, q, idx)
	})
}

func (s *quotationService) find(ctx context.Context, id string) (*model.Quotation, error) {
	qid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	q, err := s.quotations.FindByID(ctx, qid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to fetch quotation: %w", err)
	}
	if q.OtherCosts == nil {
		q.OtherCosts = costing.OtherCosts{}
	}
	return q, nil
}

// allocateNumber must run inside a transaction: the advisory lock is held
// until commit so concurrent creators see each other's numbers.
func (s *quotationService) allocateNumber(ctx context.Context, typeCode string) (string, error) {
	prefix := quotationPrefix(typeCode, s.now())
	if err := s.quotations.LockNumberPrefix(ctx, prefix); err != nil {
		return "", fmt.Errorf("failed to lock quotation sequence: %w", err)
	}
	last, err := s.quotations.LastNumberWithPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to read quotation sequence: %w", err)
	}
	return nextQuotationNumber(prefix, last)
}

func (s *quotationService) applyParams(q *model.Quotation, p QuotationParams) {
	q.CustomerName = strings.TrimSpace(p.CustomerName)
	q.OriginPort = strings.TrimSpace(p.OriginPort)
	q.DestinationPort = strings.TrimSpace(p.DestinationPort)
	q.ExchangeRate = p.ExchangeRate
	if !q.ExchangeRate.IsPositive() {
		q.ExchangeRate = s.defaultRate
	}
	q.ImportDutyPct = p.ImportDutyPct
	q.VATPct = p.VATPct
	q.ExcisePct = p.ExcisePct
	q.InsuranceCoveragePct = p.InsuranceCoveragePct
	q.Fees = p.ServiceFees
	q.SellingPrice = p.SellingPrice
}

func (s *quotationService) newOperationalRecord(q *model.Quotation, approvedAt time.Time) *model.OperationalCostRecord {
	record := &model.OperationalCostRecord{
		ID:           uuid.New(),
		QuotationID:  q.ID,
		QuotationNo:  q.QuotationNo,
		ExchangeRate: q.ExchangeRate,
		ApprovedAt:   approvedAt,
		Items:        make([]model.OperationalItem, 0, len(q.CargoItems)),
	}
	for _, item := range q.CargoItems {
		quoted := costing.Snapshot(item.Line(), item.Description)
		record.Items = append(record.Items, model.OperationalItem{
			ID:              uuid.New(),
			RecordID:        record.ID,
			CargoItemID:     item.ID,
			Position:        item.Position,
			Quoted:          quoted,
			Operational:     s.normalizer.Seed(quoted, q.ExchangeRate),
			AdditionalCosts: costing.OtherCosts{},
		})
	}
	return record
}

func (s *quotationService) withTotals(q *model.Quotation) *QuotationResponse {
	return &QuotationResponse{Quotation: q, Totals: s.normalizer.Calculate(q.Input())}
}

func newCargoItem(quotationID uuid.UUID, position int, req CargoItemRequest) model.CargoItem {
	return model.CargoItem{
		ID:                  uuid.New(),
		QuotationID:         quotationID,
		Position:            position,
		Description:         strings.TrimSpace(req.Description),
		WeightKg:            req.WeightKg,
		VolumeCBM:           req.VolumeCBM,
		Value:               req.Value,
		ValueCurrency:       strings.ToUpper(strings.TrimSpace(req.ValueCurrency)),
		Currency:            strings.ToUpper(strings.TrimSpace(req.Currency)),
		Costs:               req.Costs,
		ContainerType:       req.ContainerType,
		ContainerNo:         req.ContainerNo,
		SealNo:              req.SealNo,
		IsHazardous:         req.IsHazardous,
		CertificateRequired: req.CertificateRequired,
		InspectionRequired:  req.InspectionRequired,
		QuarantineRequired:  req.QuarantineRequired,
	}
}

// duplicateOf deep-copies src as a fresh Draft with new ids throughout.
func duplicateOf(src *model.Quotation, createdBy *uuid.UUID) *model.Quotation {
	dup := *src
	dup.ID = uuid.New()
	dup.QuotationNo = ""
	dup.Status = model.QuotationStatusDraft
	dup.CreatedBy = createdBy
	dup.DecidedBy = nil
	dup.DecidedAt = nil
	dup.RejectionReason = ""
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = time.Time{}
	dup.OtherCosts = src.OtherCosts.Clone(true)
	if dup.OtherCosts == nil {
		dup.OtherCosts = costing.OtherCosts{}
	}
	dup.CargoItems = make([]model.CargoItem, 0, len(src.CargoItems))
	for _, item := range src.CargoItems {
		item.ID = uuid.New()
		item.QuotationID = dup.ID
		dup.CargoItems = append(dup.CargoItems, item)
	}
	return &dup
}
