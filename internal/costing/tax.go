package costing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// TaxRates are percentages (10 means 10%).
type TaxRates struct {
	ImportDutyPct decimal.Decimal `json:"import_duty_pct"`
	VATPct        decimal.Decimal `json:"vat_pct"`
	ExcisePct     decimal.Decimal `json:"excise_pct"`
}

// TaxInput is everything the tax pipeline reads.
type TaxInput struct {
	CargoValue decimal.Decimal
	Freight    decimal.Decimal
	Additional decimal.Decimal
	Rates      TaxRates
}

type TaxBreakdown struct {
	TaxBase    decimal.Decimal `json:"tax_base"`
	ImportDuty decimal.Decimal `json:"import_duty"`
	VATBase    decimal.Decimal `json:"vat_base"`
	VAT        decimal.Decimal `json:"vat"`
	Excise     decimal.Decimal `json:"excise"`
	TotalTax   decimal.Decimal `json:"total_tax"`
	Rates      TaxRates        `json:"rates"`
}

type taxStage struct {
	name  string
	apply func(in TaxInput, b *TaxBreakdown)
}

// taxPipeline runs strictly in order; each stage reads what earlier stages
// wrote. VAT is charged on the duty-inclusive base, excise on the pre-duty base.
var taxPipeline = []taxStage{
	{"tax_base", func(in TaxInput, b *TaxBreakdown) {
		b.TaxBase = Sanitize(in.CargoValue).Add(Sanitize(in.Freight)).Add(Sanitize(in.Additional))
	}},
	{"import_duty", func(in TaxInput, b *TaxBreakdown) {
		b.ImportDuty = percentOf(b.TaxBase, b.Rates.ImportDutyPct)
	}},
	{"vat_base", func(in TaxInput, b *TaxBreakdown) {
		b.VATBase = b.TaxBase.Add(b.ImportDuty)
	}},
	{"vat", func(in TaxInput, b *TaxBreakdown) {
		b.VAT = percentOf(b.VATBase, b.Rates.VATPct)
	}},
	{"excise", func(in TaxInput, b *TaxBreakdown) {
		b.Excise = percentOf(b.TaxBase, b.Rates.ExcisePct)
	}},
	{"total_tax", func(in TaxInput, b *TaxBreakdown) {
		b.TotalTax = b.ImportDuty.Add(b.VAT).Add(b.Excise)
	}},
}

// taxStages lists the pipeline stage names in execution order.
func taxStages() []string {
	names := make([]string, len(taxPipeline))
	for i, s := range taxPipeline {
		names[i] = s.name
	}
	return names
}

// ComputeTax derives duty, VAT and excise. Percentages above 100 are accepted
// as given; negative percentages count as zero.
func ComputeTax(in TaxInput) TaxBreakdown {
	b := TaxBreakdown{
		Rates: TaxRates{
			ImportDutyPct: Sanitize(in.Rates.ImportDutyPct),
			VATPct:        Sanitize(in.Rates.VATPct),
			ExcisePct:     Sanitize(in.Rates.ExcisePct),
		},
	}
	for _, stage := range taxPipeline {
		stage.apply(in, &b)
	}
	return b
}

// TaxFromTotals feeds the cargo aggregate into the tax pipeline.
func TaxFromTotals(cargo CategoryTotals, rates TaxRates) TaxBreakdown {
	return ComputeTax(TaxInput{
		CargoValue: cargo.CargoValue,
		Freight:    cargo.Freight,
		Additional: cargo.Additional,
		Rates:      rates,
	})
}

func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}
