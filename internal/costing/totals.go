package costing

import "github.com/shopspring/decimal"

// QuotationTotals is derived display data. It is recomputed from inputs and
// never stored as a source of truth.
type QuotationTotals struct {
	Breakdown                  CategoryTotals  `json:"breakdown"`
	Tax                        TaxBreakdown    `json:"tax"`
	CargoItemsSubtotal         decimal.Decimal `json:"cargo_items_subtotal"`
	AdditionalServicesSubtotal decimal.Decimal `json:"additional_services_subtotal"`
	SubtotalBeforeTax          decimal.Decimal `json:"subtotal_before_tax"`
	TotalTax                   decimal.Decimal `json:"total_tax"`
	GrandTotal                 decimal.Decimal `json:"grand_total"`
	SellingPrice               decimal.Decimal `json:"selling_price"`
	Margin                     decimal.Decimal `json:"margin"`
	MarginPercentage           decimal.Decimal `json:"margin_percentage"`
	TotalItems                 int             `json:"total_items"`
	AverageCostPerItem         decimal.Decimal `json:"average_cost_per_item"`
}

// Compose combines the cargo aggregate, service subtotal and tax into the
// quotation totals and margin.
func Compose(cargo CategoryTotals, serviceTotal decimal.Decimal, tax TaxBreakdown, sellingPrice decimal.Decimal) QuotationTotals {
	sellingPrice = Sanitize(sellingPrice)
	t := QuotationTotals{
		Breakdown:                  cargo,
		Tax:                        tax,
		CargoItemsSubtotal:         cargo.ItemTotalCost,
		AdditionalServicesSubtotal: serviceTotal,
		TotalTax:                   tax.TotalTax,
		SellingPrice:               sellingPrice,
		TotalItems:                 cargo.ItemCount,
	}
	t.SubtotalBeforeTax = t.CargoItemsSubtotal.Add(t.AdditionalServicesSubtotal)
	t.GrandTotal = t.SubtotalBeforeTax.Add(t.TotalTax)
	t.Margin = sellingPrice.Sub(t.GrandTotal)
	t.MarginPercentage = ratioPercent(t.Margin, t.GrandTotal)
	if cargo.ItemCount > 0 {
		t.AverageCostPerItem = cargo.ItemTotalCost.Div(decimal.NewFromInt(int64(cargo.ItemCount)))
	}
	return t
}

// QuotationInput is the engine's view of a whole quotation.
type QuotationInput struct {
	Items        []CargoLine
	ExchangeRate decimal.Decimal
	Rates        TaxRates
	Fees         ServiceFees
	OtherCosts   []OtherCost
	SellingPrice decimal.Decimal
}

// Calculate runs the whole pipeline: cargo aggregation, service fees, tax,
// composition.
func (n Normalizer) Calculate(in QuotationInput) QuotationTotals {
	cargo := n.Aggregate(in.Items, in.ExchangeRate)
	services := n.AggregateServices(in.Fees, in.OtherCosts, in.ExchangeRate)
	tax := TaxFromTotals(cargo, in.Rates)
	return Compose(cargo, services, tax, in.SellingPrice)
}

// ratioPercent returns part/whole*100, or zero when whole is not positive.
func ratioPercent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}
