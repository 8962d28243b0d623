package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"freightdesk/internal/model"
	"freightdesk/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memDB is an in-memory stand-in for postgres. RunInTx snapshots it and
// restores the snapshot when the callback fails.
type memDB struct {
	mu         sync.Mutex
	quotations map[uuid.UUID]model.Quotation
	records    map[uuid.UUID]model.OperationalCostRecord // keyed by quotation id
	audit      []model.AuditLog
	rates      map[uuid.UUID]model.HSCodeRate
	locks      []string
	clock      time.Time
}

func newMemDB() *memDB {
	return &memDB{
		quotations: map[uuid.UUID]model.Quotation{},
		records:    map[uuid.UUID]model.OperationalCostRecord{},
		rates:      map[uuid.UUID]model.HSCodeRate{},
		clock:      time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp for created_at ordering.
func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

type memSnapshot struct {
	quotations map[uuid.UUID]model.Quotation
	records    map[uuid.UUID]model.OperationalCostRecord
	audit      []model.AuditLog
	rates      map[uuid.UUID]model.HSCodeRate
}

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := memSnapshot{
		quotations: make(map[uuid.UUID]model.Quotation, len(db.quotations)),
		records:    make(map[uuid.UUID]model.OperationalCostRecord, len(db.records)),
		audit:      append([]model.AuditLog(nil), db.audit...),
		rates:      make(map[uuid.UUID]model.HSCodeRate, len(db.rates)),
	}
	for k, v := range db.quotations {
		s.quotations[k] = cloneQuotation(v)
	}
	for k, v := range db.records {
		s.records[k] = cloneRecord(v)
	}
	for k, v := range db.rates {
		s.rates[k] = v
	}
	return s
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.quotations = s.quotations
	db.records = s.records
	db.audit = s.audit
	db.rates = s.rates
}

func (db *memDB) auditActions() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]string, 0, len(db.audit))
	for _, a := range db.audit {
		out = append(out, a.Action)
	}
	return out
}

func cloneQuotation(q model.Quotation) model.Quotation {
	c := q
	c.OtherCosts = q.OtherCosts.Clone(false)
	c.CargoItems = append([]model.CargoItem(nil), q.CargoItems...)
	sort.SliceStable(c.CargoItems, func(i, j int) bool { return c.CargoItems[i].Position < c.CargoItems[j].Position })
	return c
}

func cloneRecord(r model.OperationalCostRecord) model.OperationalCostRecord {
	c := r
	c.Items = make([]model.OperationalItem, len(r.Items))
	for i, item := range r.Items {
		item.AdditionalCosts = item.AdditionalCosts.Clone(false)
		c.Items[i] = item
	}
	return c
}

// --- transaction manager ---

type fakeTxManager struct {
	db *memDB
}

func (m fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	snap := m.db.snapshot()
	if err := fn(ctx); err != nil {
		m.db.restore(snap)
		return err
	}
	return nil
}

// --- quotations ---

type fakeQuotationRepo struct {
	db *memDB
}

var _ repository.QuotationRepository = (*fakeQuotationRepo)(nil)

func (r *fakeQuotationRepo) Create(_ context.Context, q *model.Quotation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.quotations {
		if existing.QuotationNo == q.QuotationNo {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	now := r.db.tick()
	q.CreatedAt, q.UpdatedAt = now, now
	r.db.quotations[q.ID] = cloneQuotation(*q)
	return nil
}

func (r *fakeQuotationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Quotation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q, ok := r.db.quotations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := cloneQuotation(q)
	return &c, nil
}

func (r *fakeQuotationRepo) List(_ context.Context, filter repository.QuotationFilter, page, limit int) ([]model.Quotation, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []model.Quotation
	for _, q := range r.db.quotations {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if filter.Type != "" && q.Type != filter.Type {
			continue
		}
		if filter.Search != "" && !strings.Contains(q.QuotationNo, filter.Search) && !strings.Contains(q.CustomerName, filter.Search) {
			continue
		}
		all = append(all, cloneQuotation(q))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, page, limit), int64(len(all)), nil
}

func (r *fakeQuotationRepo) Update(_ context.Context, q *model.Quotation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.quotations[q.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c := cloneQuotation(*q)
	c.CargoItems = stored.CargoItems
	c.UpdatedAt = r.db.tick()
	r.db.quotations[q.ID] = c
	return nil
}

func (r *fakeQuotationRepo) CreateItem(_ context.Context, item *model.CargoItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q, ok := r.db.quotations[item.QuotationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	q.CargoItems = append(append([]model.CargoItem(nil), q.CargoItems...), *item)
	r.db.quotations[q.ID] = q
	return nil
}

func (r *fakeQuotationRepo) UpdateItem(_ context.Context, item *model.CargoItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q, ok := r.db.quotations[item.QuotationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	items := append([]model.CargoItem(nil), q.CargoItems...)
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = *item
			q.CargoItems = items
			r.db.quotations[q.ID] = q
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeQuotationRepo) DeleteItem(_ context.Context, quotationID, itemID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q, ok := r.db.quotations[quotationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	items := make([]model.CargoItem, 0, len(q.CargoItems))
	for _, item := range q.CargoItems {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	if len(items) == len(q.CargoItems) {
		return gorm.ErrRecordNotFound
	}
	q.CargoItems = items
	r.db.quotations[q.ID] = q
	return nil
}

func (r *fakeQuotationRepo) LastNumberWithPrefix(_ context.Context, prefix string) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	last := ""
	for _, q := range r.db.quotations {
		if strings.HasPrefix(q.QuotationNo, prefix) && q.QuotationNo > last {
			last = q.QuotationNo
		}
	}
	return last, nil
}

func (r *fakeQuotationRepo) LockNumberPrefix(_ context.Context, prefix string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.locks = append(r.db.locks, prefix)
	return nil
}

// --- operational records ---

type fakeOperationalRepo struct {
	db        *memDB
	createErr error
}

var _ repository.OperationalRepository = (*fakeOperationalRepo)(nil)

func (r *fakeOperationalRepo) Create(_ context.Context, record *model.OperationalCostRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.records[record.QuotationID]; ok {
		return errors.New("duplicate key value violates unique constraint")
	}
	now := r.db.tick()
	record.CreatedAt, record.UpdatedAt = now, now
	r.db.records[record.QuotationID] = cloneRecord(*record)
	return nil
}

func (r *fakeOperationalRepo) FindByQuotationID(_ context.Context, quotationID uuid.UUID) (*model.OperationalCostRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	record, ok := r.db.records[quotationID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := cloneRecord(record)
	return &c, nil
}

func (r *fakeOperationalRepo) ExistsForQuotation(_ context.Context, quotationID uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.records[quotationID]
	return ok, nil
}

func (r *fakeOperationalRepo) List(_ context.Context, page, limit int) ([]model.OperationalCostRecord, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := make([]model.OperationalCostRecord, 0, len(r.db.records))
	for _, record := range r.db.records {
		all = append(all, cloneRecord(record))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ApprovedAt.After(all[j].ApprovedAt) })
	return paginate(all, page, limit), int64(len(all)), nil
}

func (r *fakeOperationalRepo) ListApprovedBetween(_ context.Context, from, to time.Time) ([]model.OperationalCostRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.OperationalCostRecord
	for _, record := range r.db.records {
		if !record.ApprovedAt.Before(from) && !record.ApprovedAt.After(to) {
			out = append(out, cloneRecord(record))
		}
	}
	return out, nil
}

// UpdateItem copies only the mutable columns, like the gorm Select does.
func (r *fakeOperationalRepo) UpdateItem(_ context.Context, item *model.OperationalItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for qid, record := range r.db.records {
		if record.ID != item.RecordID {
			continue
		}
		record = cloneRecord(record)
		for i := range record.Items {
			if record.Items[i].ID != item.ID {
				continue
			}
			stored := &record.Items[i]
			stored.Operational = item.Operational
			stored.AdditionalCosts = item.AdditionalCosts.Clone(false)
			stored.ActualsRecorded = item.ActualsRecorded
			stored.UpdatedAt = r.db.tick()
			r.db.records[qid] = record
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// --- audit ---

type fakeAuditRepo struct {
	db *memDB
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	entry.CreatedAt = r.db.tick()
	r.db.audit = append(r.db.audit, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, filter repository.AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []model.AuditLog
	for i := len(r.db.audit) - 1; i >= 0; i-- {
		a := r.db.audit[i]
		if filter.EntityID != "" && a.EntityID != filter.EntityID {
			continue
		}
		if filter.Action != "" && a.Action != filter.Action {
			continue
		}
		all = append(all, a)
	}
	return paginate(all, page, limit), int64(len(all)), nil
}

// --- hs code rates ---

type fakeHSCodeRepo struct {
	db      *memDB
	lookups int
}

func (r *fakeHSCodeRepo) Create(_ context.Context, rate *model.HSCodeRate) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.rates[rate.ID] = *rate
	return nil
}

func (r *fakeHSCodeRepo) Update(_ context.Context, rate *model.HSCodeRate) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.rates[rate.ID] = *rate
	return nil
}

func (r *fakeHSCodeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.rates, id)
	return nil
}

func (r *fakeHSCodeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.HSCodeRate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rate, ok := r.db.rates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rate, nil
}

func (r *fakeHSCodeRepo) List(_ context.Context, codePrefix string, page, limit int) ([]model.HSCodeRate, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []model.HSCodeRate
	for _, rate := range r.db.rates {
		if strings.HasPrefix(rate.Code, codePrefix) {
			all = append(all, rate)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Code != all[j].Code {
			return all[i].Code < all[j].Code
		}
		return all[i].EffectiveFrom.After(all[j].EffectiveFrom)
	})
	return paginate(all, page, limit), int64(len(all)), nil
}

func (r *fakeHSCodeRepo) FindActiveByCode(_ context.Context, code string, targetDate time.Time) (*model.HSCodeRate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.lookups++
	var best *model.HSCodeRate
	for _, rate := range r.db.rates {
		rate := rate
		if rate.Code != code || rate.EffectiveFrom.After(targetDate) {
			continue
		}
		if rate.EffectiveTo != nil && rate.EffectiveTo.Before(targetDate) {
			continue
		}
		if best == nil || rate.EffectiveFrom.After(best.EffectiveFrom) {
			best = &rate
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *fakeHSCodeRepo) CountOverlapping(_ context.Context, code string, from time.Time, to *time.Time, excludeID *uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var count int64
	for _, rate := range r.db.rates {
		if rate.Code != code || (excludeID != nil && rate.ID == *excludeID) {
			continue
		}
		startsBeforeEnd := to == nil || !rate.EffectiveFrom.After(*to)
		endsAfterStart := rate.EffectiveTo == nil || !rate.EffectiveTo.Before(from)
		if startsBeforeEnd && endsAfterStart {
			count++
		}
	}
	return count, nil
}

func paginate[T any](all []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if limit <= 0 || start >= len(all) {
		if limit <= 0 {
			return all
		}
		return []T{}
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// --- events ---

type recordedEvent struct {
	Type    string
	Payload map[string]string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(eventType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, _ := payload.(map[string]string)
	p.events = append(p.events, recordedEvent{Type: eventType, Payload: m})
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
