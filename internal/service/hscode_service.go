package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freightdesk/internal/metrics"
	"freightdesk/internal/model"
	"freightdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// --- DTOs ---

type HSCodeRateRequest struct {
	Code          string          `json:"code" binding:"required"`
	Description   string          `json:"description"`
	ImportDutyPct decimal.Decimal `json:"import_duty_pct"`
	VATPct        decimal.Decimal `json:"vat_pct"`
	ExcisePct     decimal.Decimal `json:"excise_pct"`
	EffectiveFrom string          `json:"effective_from" binding:"required"` // YYYY-MM-DD
	EffectiveTo   string          `json:"effective_to"`                      // YYYY-MM-DD, empty = open ended
}

type HSCodeRateResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	ImportDutyPct decimal.Decimal `json:"import_duty_pct"`
	VATPct        decimal.Decimal `json:"vat_pct"`
	ExcisePct     decimal.Decimal `json:"excise_pct"`
	EffectiveFrom string          `json:"effective_from"`
	EffectiveTo   *string         `json:"effective_to"`
}

// RateCache is the read-through cache in front of active rate lookups.
type RateCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type noopRateCache struct{}

func (noopRateCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }
func (noopRateCache) SetJSON(context.Context, string, any) error         { return nil }
func (noopRateCache) DeletePrefix(context.Context, string) error         { return nil }

// --- Interface ---

type HSCodeService interface {
	ListRates(ctx context.Context, codePrefix string, page, limit int) ([]HSCodeRateResponse, int64, error)
	CreateRate(ctx context.Context, userID string, req HSCodeRateRequest) (HSCodeRateResponse, error)
	UpdateRate(ctx context.Context, id, userID string, req HSCodeRateRequest) (HSCodeRateResponse, error)
	DeleteRate(ctx context.Context, id, userID string) error
	LookupActive(ctx context.Context, code string, date time.Time) (HSCodeRateResponse, error)
}

type hsCodeService struct {
	txManager repository.TransactionManager
	repo      repository.HSCodeRepository
	audit     repository.AuditRepository
	cache     RateCache
	metrics   *metrics.Domain
	log       zerolog.Logger
}

func NewHSCodeService(
	txManager repository.TransactionManager,
	repo repository.HSCodeRepository,
	audit repository.AuditRepository,
	cache RateCache,
	m *metrics.Domain,
	log zerolog.Logger,
) HSCodeService {
	if cache == nil {
		cache = noopRateCache{}
	}
	return &hsCodeService{
		txManager: txManager,
		repo:      repo,
		audit:     audit,
		cache:     cache,
		metrics:   m,
		log:       log.With().Str("component", "hscode_service").Logger(),
	}
}

// --- Implementation ---

func (s *hsCodeService) ListRates(ctx context.Context, codePrefix string, page, limit int) ([]HSCodeRateResponse, int64, error) {
	rates, total, err := s.repo.List(ctx, normalizeHSCode(codePrefix), page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch hs code rates: %w", err)
	}
	res := make([]HSCodeRateResponse, 0, len(rates))
	for _, r := range rates {
		res = append(res, toHSCodeRateResponse(r))
	}
	return res, total, nil
}

func (s *hsCodeService) CreateRate(ctx context.Context, userID string, req HSCodeRateRequest) (HSCodeRateResponse, error) {
	rate, err := buildHSCodeRate(req)
	if err != nil {
		return HSCodeRateResponse{}, err
	}
	rate.ID = uuid.New()

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkOverlap(txCtx, rate, nil); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, &rate); err != nil {
			return fmt.Errorf("failed to create hs code rate: %w", err)
		}
		return writeAudit(txCtx, s.audit, userID, model.ActionCreateHSCodeRate, rate.ID.String(), rate.Code, req)
	})
	if err != nil {
		return HSCodeRateResponse{}, err
	}

	s.invalidate(ctx, rate.Code)
	return toHSCodeRateResponse(rate), nil
}

func (s *hsCodeService) UpdateRate(ctx context.Context, id, userID string, req HSCodeRateRequest) (HSCodeRateResponse, error) {
	rateID, err := parseID(id)
	if err != nil {
		return HSCodeRateResponse{}, err
	}
	updated, err := buildHSCodeRate(req)
	if err != nil {
		return HSCodeRateResponse{}, err
	}

	var previousCode string
	var rate *model.HSCodeRate
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, rateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHSCodeNotFound
			}
			return fmt.Errorf("failed to fetch hs code rate: %w", err)
		}
		rate = found
		previousCode = rate.Code

		updated.ID = rate.ID
		updated.CreatedAt = rate.CreatedAt
		if err := s.checkOverlap(txCtx, updated, &rate.ID); err != nil {
			return err
		}
		*rate = updated
		if err := s.repo.Update(txCtx, rate); err != nil {
			return fmt.Errorf("failed to update hs code rate: %w", err)
		}
		return writeAudit(txCtx, s.audit, userID, model.ActionUpdateHSCodeRate, rate.ID.String(), rate.Code, req)
	})
	if err != nil {
		return HSCodeRateResponse{}, err
	}

	s.invalidate(ctx, previousCode)
	if previousCode != rate.Code {
		s.invalidate(ctx, rate.Code)
	}
	return toHSCodeRateResponse(*rate), nil
}

func (s *hsCodeService) DeleteRate(ctx context.Context, id, userID string) error {
	rateID, err := parseID(id)
	if err != nil {
		return err
	}

	var code string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rate, err := s.repo.FindByID(txCtx, rateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHSCodeNotFound
			}
			return fmt.Errorf("failed to fetch hs code rate: %w", err)
		}
		code = rate.Code
		if err := s.repo.Delete(txCtx, rateID); err != nil {
			return fmt.Errorf("failed to delete hs code rate: %w", err)
		}
		return writeAudit(txCtx, s.audit, userID, model.ActionDeleteHSCodeRate, id, code, map[string]string{"deleted_id": id})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, code)
	return nil
}

// LookupActive returns the rate valid for code on date, reading through the cache.
func (s *hsCodeService) LookupActive(ctx context.Context, code string, date time.Time) (HSCodeRateResponse, error) {
	code = normalizeHSCode(code)
	if code == "" {
		return HSCodeRateResponse{}, fmt.Errorf("%w: empty hs code", ErrInvalidInput)
	}
	// The caller's calendar date decides which rate applies, whatever its zone.
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	key := hsCodeCacheKey(code, day)

	var cached HSCodeRateResponse
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if hit {
		s.metrics.HSCodeLookup("hit")
		return cached, nil
	}

	rate, err := s.repo.FindActiveByCode(ctx, code, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.HSCodeLookup("not_found")
			return HSCodeRateResponse{}, fmt.Errorf("%w for %s on %s", ErrHSCodeNotFound, code, day.Format(dateLayout))
		}
		return HSCodeRateResponse{}, fmt.Errorf("failed to query hs code rate: %w", err)
	}
	s.metrics.HSCodeLookup("miss")

	res := toHSCodeRateResponse(*rate)
	if err := s.cache.SetJSON(ctx, key, res); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return res, nil
}

// --- Helpers ---

func (s *hsCodeService) checkOverlap(ctx context.Context, rate model.HSCodeRate, excludeID *uuid.UUID) error {
	count, err := s.repo.CountOverlapping(ctx, rate.Code, rate.EffectiveFrom, rate.EffectiveTo, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check overlap: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: code %s", ErrHSCodeOverlap, rate.Code)
	}
	return nil
}

func (s *hsCodeService) invalidate(ctx context.Context, code string) {
	if err := s.cache.DeletePrefix(ctx, hsCodeCachePrefix(code)); err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("cache invalidation failed")
	}
}

func hsCodeCachePrefix(code string) string {
	return "hscode:" + code + ":"
}

func hsCodeCacheKey(code string, day time.Time) string {
	return hsCodeCachePrefix(code) + day.Format(dateLayout)
}

// normalizeHSCode strips separators so 8471.30 and 847130 address the same rate.
func normalizeHSCode(code string) string {
	return strings.NewReplacer(".", "", " ", "", "-", "").Replace(strings.TrimSpace(code))
}

func buildHSCodeRate(req HSCodeRateRequest) (model.HSCodeRate, error) {
	code := normalizeHSCode(req.Code)
	if code == "" {
		return model.HSCodeRate{}, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	for name, pct := range map[string]decimal.Decimal{"import_duty_pct": req.ImportDutyPct, "vat_pct": req.VATPct, "excise_pct": req.ExcisePct} {
		if pct.IsNegative() {
			return model.HSCodeRate{}, fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, name)
		}
	}

	from, err := time.Parse(dateLayout, req.EffectiveFrom)
	if err != nil {
		return model.HSCodeRate{}, fmt.Errorf("%w: effective_from must be YYYY-MM-DD", ErrInvalidInput)
	}
	var to *time.Time
	if req.EffectiveTo != "" {
		t, err := time.Parse(dateLayout, req.EffectiveTo)
		if err != nil {
			return model.HSCodeRate{}, fmt.Errorf("%w: effective_to must be YYYY-MM-DD", ErrInvalidInput)
		}
		if t.Before(from) {
			return model.HSCodeRate{}, fmt.Errorf("%w: effective_to is before effective_from", ErrInvalidInput)
		}
		to = &t
	}

	return model.HSCodeRate{
		Code:          code,
		Description:   strings.TrimSpace(req.Description),
		ImportDutyPct: req.ImportDutyPct,
		VATPct:        req.VATPct,
		ExcisePct:     req.ExcisePct,
		EffectiveFrom: from,
		EffectiveTo:   to,
	}, nil
}

func toHSCodeRateResponse(r model.HSCodeRate) HSCodeRateResponse {
	resp := HSCodeRateResponse{
		ID:            r.ID.String(),
		Code:          r.Code,
		Description:   r.Description,
		ImportDutyPct: r.ImportDutyPct,
		VATPct:        r.VATPct,
		ExcisePct:     r.ExcisePct,
		EffectiveFrom: r.EffectiveFrom.Format(dateLayout),
	}
	if r.EffectiveTo != nil {
		s := r.EffectiveTo.Format(dateLayout)
		resp.EffectiveTo = &s
	}
	return resp
}
