package costing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Profitability string

const (
	ProfitabilityNormal    Profitability = "Normal"
	ProfitabilityProfit    Profitability = "Profit"
	ProfitabilityLoss      Profitability = "Loss"
	ProfitabilityBreakEven Profitability = "Break-even"
)

// Classify maps the sign of a margin to a profitability class.
func Classify(margin decimal.Decimal) Profitability {
	switch margin.Sign() {
	case 1:
		return ProfitabilityProfit
	case -1:
		return ProfitabilityLoss
	default:
		return ProfitabilityBreakEven
	}
}

// QuotedCosts is the write-once snapshot of a cargo item taken at approval.
type QuotedCosts struct {
	Description   string          `gorm:"type:varchar(255)" json:"description"`
	Value         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"value"`
	ValueCurrency string          `gorm:"type:varchar(10)" json:"value_currency"`
	Currency      string          `gorm:"type:varchar(10)" json:"currency"`
	Costs         CostFields      `gorm:"embedded" json:"costs"`
}

// OperationalCosts are the actual incurred costs per category, in base currency.
type OperationalCosts struct {
	ActualOriginCost      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"actual_origin_cost"`
	ActualFreightCost     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"actual_freight_cost"`
	ActualDestinationCost decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"actual_destination_cost"`
	ActualAdditionalCost  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"actual_additional_cost"`
}

func (o OperationalCosts) Total() decimal.Decimal {
	return Sanitize(o.ActualOriginCost).
		Add(Sanitize(o.ActualFreightCost)).
		Add(Sanitize(o.ActualDestinationCost)).
		Add(Sanitize(o.ActualAdditionalCost))
}

// Snapshot copies the quoted values of a cargo line.
func Snapshot(line CargoLine, description string) QuotedCosts {
	return QuotedCosts{
		Description:   description,
		Value:         line.Value,
		ValueCurrency: line.ValueCurrency,
		Currency:      line.Currency,
		Costs:         line.Costs,
	}
}

// Seed starts the actuals equal to the quote, converted to base currency.
func (n Normalizer) Seed(q QuotedCosts, rate decimal.Decimal) OperationalCosts {
	costs := q.Costs.ToBase(n, q.Currency, rate)
	return OperationalCosts{
		ActualOriginCost:      costs.Category(CategoryOrigin),
		ActualFreightCost:     costs.Category(CategoryFreight),
		ActualDestinationCost: costs.Category(CategoryDestination),
		ActualAdditionalCost:  costs.Category(CategoryAdditional),
	}
}

// OperationalLine is the engine's view of one operational item.
type OperationalLine struct {
	ID          uuid.UUID
	Quoted      QuotedCosts
	Operational OperationalCosts
	Additional  []OtherCost
	// Recorded is false until actuals are entered for the first time.
	Recorded bool
}

type ItemReconciliation struct {
	ID                   uuid.UUID       `json:"id"`
	QuotedValue          decimal.Decimal `json:"quoted_value"`
	TotalQuotationCost   decimal.Decimal `json:"total_quotation_cost"`
	AdditionalCostTotal  decimal.Decimal `json:"additional_cost_total"`
	TotalOperationalCost decimal.Decimal `json:"total_operational_cost"`
	CostDifference       decimal.Decimal `json:"cost_difference"`
	Margin               decimal.Decimal `json:"margin"`
	Profitability        Profitability   `json:"profitability"`
}

// ReconcileItem compares actual against quoted cost for one item. Margin is
// measured against the quoted cargo value, not the selling price.
func (n Normalizer) ReconcileItem(line OperationalLine, rate decimal.Decimal) ItemReconciliation {
	r := ItemReconciliation{
		ID:                  line.ID,
		QuotedValue:         n.ToBase(line.Quoted.Value, line.Quoted.ValueCurrency, rate),
		TotalQuotationCost:  line.Quoted.Costs.ToBase(n, line.Quoted.Currency, rate).Total(),
		AdditionalCostTotal: n.SumOtherCosts(line.Additional, rate),
	}
	r.TotalOperationalCost = line.Operational.Total().Add(r.AdditionalCostTotal)
	r.CostDifference = r.TotalOperationalCost.Sub(r.TotalQuotationCost)
	r.Margin = r.QuotedValue.Sub(r.TotalOperationalCost)
	r.Profitability = ProfitabilityNormal
	if line.Recorded {
		r.Profitability = Classify(r.Margin)
	}
	return r
}

type RecordReconciliation struct {
	Items                []ItemReconciliation `json:"items"`
	TotalQuotationCost   decimal.Decimal      `json:"total_quotation_cost"`
	TotalOperationalCost decimal.Decimal      `json:"total_operational_cost"`
	TotalCostDifference  decimal.Decimal      `json:"total_cost_difference"`
	TotalMargin          decimal.Decimal      `json:"total_margin"`
	OverallProfitability Profitability        `json:"overall_profitability"`
}

// ReconcileRecord recomputes every item and the record rollups from scratch.
func (n Normalizer) ReconcileRecord(lines []OperationalLine, rate decimal.Decimal) RecordReconciliation {
	rec := RecordReconciliation{
		Items:                make([]ItemReconciliation, 0, len(lines)),
		OverallProfitability: ProfitabilityNormal,
	}
	recorded := false
	for _, line := range lines {
		item := n.ReconcileItem(line, rate)
		rec.Items = append(rec.Items, item)
		rec.TotalQuotationCost = rec.TotalQuotationCost.Add(item.TotalQuotationCost)
		rec.TotalOperationalCost = rec.TotalOperationalCost.Add(item.TotalOperationalCost)
		rec.TotalCostDifference = rec.TotalCostDifference.Add(item.CostDifference)
		rec.TotalMargin = rec.TotalMargin.Add(item.Margin)
		recorded = recorded || line.Recorded
	}
	if recorded {
		rec.OverallProfitability = Classify(rec.TotalMargin)
	}
	return rec
}
